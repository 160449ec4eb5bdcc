package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &IconResource{}
var _ resource.ResourceWithConfigure = &IconResource{}
var _ resource.ResourceWithImportState = &IconResource{}

func NewIconResource() resource.Resource {
	return &IconResource{}
}

// IconResource uploads one custom icon into the registry.
type IconResource struct {
	client *Client
}

// IconResourceModel describes the resource data model.
type IconResourceModel struct {
	ID         types.String `tfsdk:"id"`
	Source     types.String `tfsdk:"source"`
	Name       types.String `tfsdk:"name"`
	Markup     types.String `tfsdk:"markup"`
	UploadedAt types.String `tfsdk:"uploaded_at"`
}

func (m *IconResourceModel) fromRecord(rec registry.Record) {
	m.ID = types.StringValue(rec.ID)
	m.Name = types.StringValue(rec.Name)
	m.Markup = types.StringValue(rec.Markup)
	m.UploadedAt = types.StringValue(rec.UploadedAt.UTC().Format(time.RFC3339))
}

func (r *IconResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_icon"
}

func (r *IconResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Uploads a custom SVG icon. The file is validated, sanitised and canonicalised (viewBox ensured, fixed size removed, paints set to `currentColor`) before it is registered.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Registry identifier of the icon.",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"source": schema.StringAttribute{
				MarkdownDescription: "Local path or http(s) URL of the SVG file.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplaceIf(replaceUnlessImported,
						"Changing the source replaces the icon. An imported icon adopts the configured source in place.",
						"Changing the source replaces the icon. An imported icon adopts the configured source in place."),
				},
			},
			"name": schema.StringAttribute{
				MarkdownDescription: "Unique icon name. Derived from the file name when omitted.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"markup": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Canonical SVG markup as stored.",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"uploaded_at": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Upload time (RFC 3339).",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
		},
	}
}

func (r *IconResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	client, ok := clientFrom(req.ProviderData, &resp.Diagnostics)
	if ok {
		r.client = client
	}
}

func (r *IconResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data IconResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() || !requireClient(r.client, &resp.Diagnostics) {
		return
	}

	name := ""
	if !data.Name.IsNull() && !data.Name.IsUnknown() {
		name = data.Name.ValueString()
	}

	rec, err := r.client.AddFromSource(ctx, data.Source.ValueString(), name)
	if err != nil {
		resp.Diagnostics.AddAttributeError(path.Root("source"), errorSummary(err), err.Error())
		return
	}
	tflog.Info(ctx, "Registered icon", map[string]interface{}{"id": rec.ID, "name": rec.Name})

	data.fromRecord(rec)
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *IconResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data IconResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() || !requireClient(r.client, &resp.Diagnostics) {
		return
	}

	rec, ok, err := r.client.Icons.Get(ctx, data.ID.ValueString())
	if err != nil {
		resp.Diagnostics.AddError("Failed to read icon", err.Error())
		return
	}
	if !ok {
		tflog.Warn(ctx, "Icon no longer registered, removing from state", map[string]interface{}{"id": data.ID.ValueString()})
		resp.State.RemoveResource(ctx)
		return
	}

	data.fromRecord(rec)
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

// Update only carries state forward: every configurable attribute forces
// replacement.
func (r *IconResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data IconResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}
	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *IconResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data IconResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() || !requireClient(r.client, &resp.Diagnostics) {
		return
	}

	if err := r.client.Icons.RemoveIcon(ctx, data.ID.ValueString()); err != nil {
		resp.Diagnostics.AddError("Failed to remove icon", fmt.Sprintf("icon %s: %s", data.ID.ValueString(), err))
		return
	}
	tflog.Info(ctx, "Removed icon", map[string]interface{}{"id": data.ID.ValueString()})
}

// replaceUnlessImported requires replacement for a changed source, except
// when the state has none because the icon was imported by id.
func replaceUnlessImported(ctx context.Context, req planmodifier.StringRequest, resp *stringplanmodifier.RequiresReplaceIfFuncResponse) {
	resp.RequiresReplace = !req.StateValue.IsNull()
}

// ImportState takes the registry id. The source is unknown to the registry
// and is filled in from configuration by the next apply.
func (r *IconResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)
}
