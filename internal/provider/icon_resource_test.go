package provider

import (
	"context"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/tfsdk"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-go/tftypes"
)

func iconResourceFor(t *testing.T, c *Client) (*IconResource, resource.SchemaResponse) {
	t.Helper()
	r := &IconResource{}
	r.Configure(context.Background(), resource.ConfigureRequest{ProviderData: c}, &resource.ConfigureResponse{})
	var sr resource.SchemaResponse
	r.Schema(context.Background(), resource.SchemaRequest{}, &sr)
	return r, sr
}

func TestIconResourceLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	r, sr := iconResourceFor(t, c)
	objType := sr.Schema.Type().TerraformType(ctx)
	unknown := tftypes.NewValue(tftypes.String, tftypes.UnknownValue)

	plan := tfsdk.Plan{
		Schema: sr.Schema,
		Raw: tftypes.NewValue(objType, map[string]tftypes.Value{
			"id":          unknown,
			"source":      tftypes.NewValue(tftypes.String, writeIcon(t, "arrow.svg", arrowSVG)),
			"name":        unknown,
			"markup":      unknown,
			"uploaded_at": unknown,
		}),
	}
	createResp := &resource.CreateResponse{State: tfsdk.State{Schema: sr.Schema, Raw: tftypes.NewValue(objType, nil)}}
	r.Create(ctx, resource.CreateRequest{Plan: plan}, createResp)
	if createResp.Diagnostics.HasError() {
		t.Fatalf("Create() diagnostics: %v", createResp.Diagnostics)
	}

	var created IconResourceModel
	createResp.Diagnostics.Append(createResp.State.Get(ctx, &created)...)
	if created.Name.ValueString() != "arrow" || created.ID.ValueString() == "" {
		t.Fatalf("created = %+v", created)
	}
	want := `<svg viewBox="0 0 24 24"><path fill="currentColor" d="M0 0"/></svg>`
	if created.Markup.ValueString() != want {
		t.Errorf("markup = %s, want %s", created.Markup.ValueString(), want)
	}

	readResp := &resource.ReadResponse{State: createResp.State}
	r.Read(ctx, resource.ReadRequest{State: createResp.State}, readResp)
	if readResp.Diagnostics.HasError() {
		t.Fatalf("Read() diagnostics: %v", readResp.Diagnostics)
	}
	if readResp.State.Raw.IsNull() {
		t.Fatal("Read() removed a registered icon")
	}

	deleteResp := &resource.DeleteResponse{State: createResp.State}
	r.Delete(ctx, resource.DeleteRequest{State: createResp.State}, deleteResp)
	if deleteResp.Diagnostics.HasError() {
		t.Fatalf("Delete() diagnostics: %v", deleteResp.Diagnostics)
	}
	if _, ok, _ := c.Icons.Get(ctx, created.ID.ValueString()); ok {
		t.Error("icon still registered after Delete()")
	}

	goneResp := &resource.ReadResponse{State: createResp.State}
	r.Read(ctx, resource.ReadRequest{State: createResp.State}, goneResp)
	if !goneResp.State.Raw.IsNull() {
		t.Error("Read() should drop a deleted icon from state")
	}
}

func TestIconResourceCreateRejectsNonSVG(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	r, sr := iconResourceFor(t, c)
	objType := sr.Schema.Type().TerraformType(ctx)
	unknown := tftypes.NewValue(tftypes.String, tftypes.UnknownValue)

	plan := tfsdk.Plan{
		Schema: sr.Schema,
		Raw: tftypes.NewValue(objType, map[string]tftypes.Value{
			"id":          unknown,
			"source":      tftypes.NewValue(tftypes.String, writeIcon(t, "notes.txt", "hello")),
			"name":        tftypes.NewValue(tftypes.String, "notes"),
			"markup":      unknown,
			"uploaded_at": unknown,
		}),
	}
	resp := &resource.CreateResponse{State: tfsdk.State{Schema: sr.Schema, Raw: tftypes.NewValue(objType, nil)}}
	r.Create(ctx, resource.CreateRequest{Plan: plan}, resp)

	if !resp.Diagnostics.HasError() {
		t.Fatal("Create() should fail for a non-SVG source")
	}
	if got := resp.Diagnostics.Errors()[0].Summary(); got != "Icon source is not an SVG file" {
		t.Errorf("summary = %q", got)
	}
	list, _ := c.Icons.Icons(ctx)
	if len(list) != 0 {
		t.Errorf("registry has %d icons after failed create", len(list))
	}
}

func TestIconResourceUnconfigured(t *testing.T) {
	ctx := context.Background()
	r := &IconResource{}
	var sr resource.SchemaResponse
	r.Schema(ctx, resource.SchemaRequest{}, &sr)
	objType := sr.Schema.Type().TerraformType(ctx)

	state := tfsdk.State{Schema: sr.Schema, Raw: tftypes.NewValue(objType, map[string]tftypes.Value{
		"id":          tftypes.NewValue(tftypes.String, "icon_1_abc"),
		"source":      tftypes.NewValue(tftypes.String, "a.svg"),
		"name":        tftypes.NewValue(tftypes.String, "a"),
		"markup":      tftypes.NewValue(tftypes.String, "<svg/>"),
		"uploaded_at": tftypes.NewValue(tftypes.String, "2026-10-14T00:00:00Z"),
	})}
	resp := &resource.ReadResponse{State: state}
	r.Read(ctx, resource.ReadRequest{State: state}, resp)
	if !resp.Diagnostics.HasError() {
		t.Error("Read() without a configured provider should fail")
	}
}

func TestIconResourceSourceReplacement(t *testing.T) {
	ctx := context.Background()
	r := &IconResource{}
	var sr resource.SchemaResponse
	r.Schema(ctx, resource.SchemaRequest{}, &sr)
	objType := sr.Schema.Type().TerraformType(ctx)

	source, ok := sr.Schema.Attributes["source"].(schema.StringAttribute)
	if !ok || len(source.PlanModifiers) != 1 {
		t.Fatalf("source attribute = %#v", sr.Schema.Attributes["source"])
	}

	object := func(src tftypes.Value) tftypes.Value {
		return tftypes.NewValue(objType, map[string]tftypes.Value{
			"id":          tftypes.NewValue(tftypes.String, "icon_1_abc"),
			"source":      src,
			"name":        tftypes.NewValue(tftypes.String, "arrow"),
			"markup":      tftypes.NewValue(tftypes.String, "<svg/>"),
			"uploaded_at": tftypes.NewValue(tftypes.String, "2026-10-14T00:00:00Z"),
		})
	}

	tests := []struct {
		name        string
		state       types.String
		plan        types.String
		wantReplace bool
	}{
		{name: "imported icon adopts source", state: types.StringNull(), plan: types.StringValue("arrow.svg")},
		{name: "unchanged source", state: types.StringValue("arrow.svg"), plan: types.StringValue("arrow.svg")},
		{name: "changed source", state: types.StringValue("arrow.svg"), plan: types.StringValue("other.svg"), wantReplace: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stateSrc := tftypes.NewValue(tftypes.String, nil)
			if !tt.state.IsNull() {
				stateSrc = tftypes.NewValue(tftypes.String, tt.state.ValueString())
			}
			planSrc := tftypes.NewValue(tftypes.String, tt.plan.ValueString())

			req := planmodifier.StringRequest{
				State:       tfsdk.State{Schema: sr.Schema, Raw: object(stateSrc)},
				Plan:        tfsdk.Plan{Schema: sr.Schema, Raw: object(planSrc)},
				Config:      tfsdk.Config{Schema: sr.Schema, Raw: object(planSrc)},
				StateValue:  tt.state,
				PlanValue:   tt.plan,
				ConfigValue: tt.plan,
			}
			resp := &planmodifier.StringResponse{PlanValue: tt.plan}
			source.PlanModifiers[0].PlanModifyString(ctx, req, resp)

			if resp.Diagnostics.HasError() {
				t.Fatalf("PlanModifyString() diagnostics: %v", resp.Diagnostics)
			}
			if resp.RequiresReplace != tt.wantReplace {
				t.Errorf("RequiresReplace = %v, want %v", resp.RequiresReplace, tt.wantReplace)
			}
		})
	}
}
