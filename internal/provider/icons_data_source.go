package provider

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

var _ datasource.DataSource = &IconsDataSource{}
var _ datasource.DataSourceWithConfigure = &IconsDataSource{}

// IconsDataSource lists the registered custom icons.
type IconsDataSource struct {
	client *Client
}

func NewIconsDataSource() datasource.DataSource {
	return &IconsDataSource{}
}

type IconsDataSourceModel struct {
	ID         types.String       `tfsdk:"id"`
	NamePrefix types.String       `tfsdk:"name_prefix"`
	Icons      []IconSummaryModel `tfsdk:"icons"`
}

type IconSummaryModel struct {
	ID         types.String `tfsdk:"id"`
	Name       types.String `tfsdk:"name"`
	UploadedAt types.String `tfsdk:"uploaded_at"`
}

func (d *IconsDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_icons"
}

func (d *IconsDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Lists registered custom icons in upload order.",
		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed: true,
			},
			"name_prefix": schema.StringAttribute{
				MarkdownDescription: "Only list icons whose name starts with this prefix.",
				Optional:            true,
			},
			"icons": schema.ListNestedAttribute{
				Computed: true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"id":          schema.StringAttribute{Computed: true},
						"name":        schema.StringAttribute{Computed: true},
						"uploaded_at": schema.StringAttribute{Computed: true},
					},
				},
			},
		},
	}
}

func (d *IconsDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	client, ok := clientFrom(req.ProviderData, &resp.Diagnostics)
	if ok {
		d.client = client
	}
}

func (d *IconsDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data IconsDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() || !requireClient(d.client, &resp.Diagnostics) {
		return
	}

	recs, err := d.client.Icons.Icons(ctx)
	if err != nil {
		resp.Diagnostics.AddError("Failed to list icons", err.Error())
		return
	}

	data.Icons = summarize(recs, data.NamePrefix.ValueString())
	ids := make([]string, 0, len(data.Icons))
	for _, ic := range data.Icons {
		ids = append(ids, ic.ID.ValueString())
	}
	hash := sha256.Sum256([]byte(strings.Join(ids, ",")))
	data.ID = types.StringValue(fmt.Sprintf("%x", hash[:8]))

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func summarize(recs []registry.Record, prefix string) []IconSummaryModel {
	out := make([]IconSummaryModel, 0, len(recs))
	for _, rec := range recs {
		if !strings.HasPrefix(rec.Name, prefix) {
			continue
		}
		out = append(out, IconSummaryModel{
			ID:         types.StringValue(rec.ID),
			Name:       types.StringValue(rec.Name),
			UploadedAt: types.StringValue(rec.UploadedAt.UTC().Format(time.RFC3339)),
		})
	}
	return out
}
