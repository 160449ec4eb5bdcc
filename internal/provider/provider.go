package provider

import (
	"context"
	"os"
	"sync"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-iconset/internal/config"
	"github.com/ankek/terraform-provider-iconset/internal/logging"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

// Ensure IconsetProvider satisfies various provider interfaces.
var _ provider.Provider = &IconsetProvider{}

// IconsetProvider defines the provider implementation.
type IconsetProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string

	// mu guards client, the registry opened by the latest Configure.
	mu     sync.Mutex
	client *Client
}

// IconsetProviderModel describes the provider data model.
type IconsetProviderModel struct {
	StoreBackend types.String `tfsdk:"store_backend"`
	StorePath    types.String `tfsdk:"store_path"`
	MaxBytes     types.Int64  `tfsdk:"max_bytes"`
	HTTPRetryMax types.Int64  `tfsdk:"http_retry_max"`
}

func (p *IconsetProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "iconset"
	resp.Version = p.version
}

func (p *IconsetProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The iconset provider manages a registry of custom SVG icons: uploads are validated, sanitised and recolored to currentColor, and icons can be rendered at standard sizes and colors.",
		Attributes: map[string]schema.Attribute{
			"store_backend": schema.StringAttribute{
				Description: "Registry backend: 'file', 'sqlite' or 'memory'. Can also be set via ICONSET_STORE_BACKEND. Default is 'file'.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(registry.Backends()...),
				},
			},
			"store_path": schema.StringAttribute{
				Description: "Path of the registry file or database. Can also be set via ICONSET_STORE_PATH. Default is 'icons.json'.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"max_bytes": schema.Int64Attribute{
				Description: "Upload size ceiling in bytes. Can also be set via ICONSET_MAX_BYTES. Default is 102400.",
				Optional:    true,
				Validators: []validator.Int64{
					int64validator.AtLeast(1),
				},
			},
			"http_retry_max": schema.Int64Attribute{
				Description: "Retries for remote icon sources. Can also be set via ICONSET_HTTP_RETRY_MAX. Default is 3.",
				Optional:    true,
				Validators: []validator.Int64{
					int64validator.Between(0, 10),
				},
			},
		},
	}
}

func (p *IconsetProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data IconsetProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	env, err := config.Load()
	if err != nil {
		resp.Diagnostics.AddError("Invalid ICONSET_* environment configuration", err.Error())
		return
	}
	cfg, err := ResolveSettings(&data, env)
	if err != nil {
		resp.Diagnostics.AddError("Invalid provider configuration", err.Error())
		return
	}

	tflog.Info(ctx, "Configuring iconset registry", map[string]interface{}{
		"store_backend": cfg.StoreBackend,
		"store_path":    cfg.StorePath,
		"max_bytes":     cfg.MaxBytes,
	})

	client, err := NewClient(cfg, logging.New("iconset", cfg.LogLevel, os.Stderr))
	if err != nil {
		resp.Diagnostics.AddError("Failed to open icon registry", err.Error())
		return
	}

	p.replaceClient(ctx, client)
	resp.DataSourceData = client
	resp.ResourceData = client
}

// replaceClient records client and closes the registry of the previous
// Configure, if any.
func (p *IconsetProvider) replaceClient(ctx context.Context, client *Client) {
	p.mu.Lock()
	prev := p.client
	p.client = client
	p.mu.Unlock()

	if prev == nil {
		return
	}
	if err := prev.Close(); err != nil {
		tflog.Warn(ctx, "Failed to close previous icon registry", map[string]interface{}{"error": err.Error()})
	}
}

func (p *IconsetProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewIconResource,
	}
}

func (p *IconsetProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewIconRenderDataSource,
		NewIconsDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &IconsetProvider{
			version: version,
		}
	}
}
