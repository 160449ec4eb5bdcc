package provider

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-iconset/internal/renderer"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &IconRenderDataSource{}
var _ datasource.DataSourceWithConfigure = &IconRenderDataSource{}

// IconRenderDataSource resolves a named icon into render outputs.
type IconRenderDataSource struct {
	client *Client
}

func NewIconRenderDataSource() datasource.DataSource {
	return &IconRenderDataSource{}
}

// IconRenderDataSourceModel describes the data source data model.
type IconRenderDataSourceModel struct {
	ID             types.String  `tfsdk:"id"`
	Name           types.String  `tfsdk:"name"`
	Size           types.String  `tfsdk:"size"`
	SizePx         types.Float64 `tfsdk:"size_px"`
	Variant        types.String  `tfsdk:"variant"`
	CustomColor    types.String  `tfsdk:"custom_color"`
	AdaptiveColors types.Bool    `tfsdk:"adaptive_colors"`
	Preview        types.Bool    `tfsdk:"preview"`

	SizePxResolved   types.Float64 `tfsdk:"size_px_resolved"`
	ColorMode        types.String  `tfsdk:"color_mode"`
	ColorCSS         types.String  `tfsdk:"color_css"`
	Markup           types.String  `tfsdk:"markup"`
	Inline           types.String  `tfsdk:"inline"`
	DataURI          types.String  `tfsdk:"data_uri"`
	Fallback         types.Bool    `tfsdk:"fallback"`
	PreviewPNGBase64 types.String  `tfsdk:"preview_png_base64"`
}

func (d *IconRenderDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_icon_render"
}

func (d *IconRenderDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders a registered custom icon, or a built-in icon of the same name, at a standard size and color. Unknown or corrupted icons render as a placeholder glyph.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Data source identifier",
			},
			"name": schema.StringAttribute{
				MarkdownDescription: "Icon name: a registered custom icon or a built-in icon.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"size": schema.StringAttribute{
				MarkdownDescription: "Named size: 'xs' (12), 'sm' (16), 'md' (20), 'lg' (24), 'xl' (32) or '2xl' (48). Default is 'md'.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.OneOf(renderer.SizeNames()...),
				},
			},
			"size_px": schema.Float64Attribute{
				MarkdownDescription: "Explicit pixel size; overrides `size`.",
				Optional:            true,
				Validators: []validator.Float64{
					float64validator.AtLeast(0.5),
				},
			},
			"variant": schema.StringAttribute{
				MarkdownDescription: "Color token variant used when adaptive colors are on. Default is 'default'.",
				Optional:            true,
			},
			"custom_color": schema.StringAttribute{
				MarkdownDescription: "Explicit CSS color; takes precedence over variant and adaptive colors.",
				Optional:            true,
			},
			"adaptive_colors": schema.BoolAttribute{
				MarkdownDescription: "Follow the theme token for `variant`. When false and no custom color is set, the color is inherited. Default is true.",
				Optional:            true,
			},
			"preview": schema.BoolAttribute{
				MarkdownDescription: "Also rasterise a PNG preview. Default is false.",
				Optional:            true,
			},
			"size_px_resolved": schema.Float64Attribute{
				Computed:            true,
				MarkdownDescription: "Effective pixel size.",
			},
			"color_mode": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Active color path: 'custom:<color>', 'token-variant:<variant>' or 'inherit'.",
			},
			"color_css": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "CSS value for the color property.",
			},
			"markup": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "SVG markup of the icon.",
			},
			"inline": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Markup with size, color and accessibility attributes applied.",
			},
			"data_uri": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "`inline` as a base64 data URI.",
			},
			"fallback": schema.BoolAttribute{
				Computed:            true,
				MarkdownDescription: "True when the placeholder glyph was rendered.",
			},
			"preview_png_base64": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Base64 PNG preview when `preview` is true.",
			},
		},
	}
}

func (d *IconRenderDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	client, ok := clientFrom(req.ProviderData, &resp.Diagnostics)
	if ok {
		d.client = client
	}
}

// renderRequest converts the model into a RenderRequest, applying defaults.
func (m *IconRenderDataSourceModel) renderRequest() (RenderRequest, error) {
	size, err := renderer.ParseSize(m.Size.ValueString())
	if err != nil {
		return RenderRequest{}, err
	}

	opts := renderer.DefaultOptions()
	opts.Size = size
	if !m.SizePx.IsNull() && !m.SizePx.IsUnknown() {
		opts.SizePx = m.SizePx.ValueFloat64()
	}
	if v := m.Variant.ValueString(); v != "" {
		opts.Variant = v
	}
	opts.CustomColor = m.CustomColor.ValueString()
	if !m.AdaptiveColors.IsNull() && !m.AdaptiveColors.IsUnknown() {
		opts.AdaptiveColors = m.AdaptiveColors.ValueBool()
	}
	opts.Label = m.Name.ValueString()

	return RenderRequest{
		Name:    m.Name.ValueString(),
		Options: opts,
		Preview: m.Preview.ValueBool(),
	}, nil
}

func (m *IconRenderDataSourceModel) setResult(res RenderResult) {
	desc := res.Descriptor
	m.SizePxResolved = types.Float64Value(desc.SizePx)
	m.ColorMode = types.StringValue(desc.Color.String())
	m.ColorCSS = types.StringValue(desc.Color.CSSValue())
	m.Markup = types.StringValue(desc.Markup)
	m.Inline = types.StringValue(res.Inline)
	m.DataURI = types.StringValue(res.DataURI)
	m.Fallback = types.BoolValue(desc.Fallback)
	m.PreviewPNGBase64 = types.StringValue(res.PreviewPNG)

	hash := sha256.Sum256([]byte(fmt.Sprintf("%s_%v_%s", m.Name.ValueString(), desc.SizePx, desc.Color)))
	m.ID = types.StringValue(fmt.Sprintf("%x", hash[:8]))
}

func (d *IconRenderDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data IconRenderDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() || !requireClient(d.client, &resp.Diagnostics) {
		return
	}

	renderReq, err := data.renderRequest()
	if err != nil {
		resp.Diagnostics.AddError("Invalid render options", err.Error())
		return
	}
	res, err := d.client.Render(ctx, renderReq)
	if err != nil {
		resp.Diagnostics.AddError("Failed to render icon", err.Error())
		return
	}
	if res.Descriptor.Fallback {
		resp.Diagnostics.AddWarning("Icon rendered as placeholder",
			fmt.Sprintf("Icon %q is not registered, is not a built-in icon, or its markup is unrenderable.", renderReq.Name))
	}
	tflog.Debug(ctx, "Rendered icon", map[string]interface{}{
		"name":       renderReq.Name,
		"size_px":    res.Descriptor.SizePx,
		"color_mode": res.Descriptor.Color.String(),
		"fallback":   res.Descriptor.Fallback,
	})

	data.setResult(res)
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
