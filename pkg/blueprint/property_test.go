package blueprint

import (
	"slices"
	"testing"

	"github.com/matzehuels/hardref/pkg/asset"
)

var (
	strongObj = ElemType{Object: true}
	weakObj   = ElemType{Object: true, Weak: true}
	plain     = ElemType{}
)

func TestHasStrongRefs(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want bool
	}{
		{"scalar object", Property{Kind: Scalar, Elem: strongObj}, true},
		{"untagged defaults to scalar", Property{Elem: strongObj}, true},
		{"scalar weak", Property{Kind: Scalar, Elem: weakObj}, false},
		{"scalar int", Property{Kind: Scalar, Elem: plain}, false},
		{"array of objects", Property{Kind: Array, Elem: strongObj}, true},
		{"set of soft refs", Property{Kind: Set, Elem: weakObj}, false},
		{"map object key", Property{Kind: Map, Elem: strongObj, MapValue: plain}, true},
		{"map object value", Property{Kind: Map, Elem: plain, MapValue: strongObj}, true},
		{"map of plain", Property{Kind: Map, Elem: plain, MapValue: plain}, false},
		{"struct with object field", Property{Kind: Struct, Fields: []Property{
			{Name: "Count", Elem: plain},
			{Name: "Mesh", Elem: strongObj},
		}}, true},
		{"struct without object field", Property{Kind: Struct, Fields: []Property{
			{Name: "Count", Elem: plain},
		}}, false},
		{"nested struct is not descended", Property{Kind: Struct, Fields: []Property{
			{Name: "Inner", Kind: Struct, Fields: []Property{{Name: "Mesh", Elem: strongObj}}},
		}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prop.HasStrongRefs(); got != tt.want {
				t.Errorf("HasStrongRefs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectRefs(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		inst Instance
		want []asset.ObjectRef
	}{
		{
			name: "scalar",
			prop: Property{Name: "Weapon", Elem: strongObj},
			inst: Instance{"Weapon": Ref("/Game/X.X_C")},
			want: []asset.ObjectRef{"/Game/X.X_C"},
		},
		{
			name: "null scalar",
			prop: Property{Name: "Weapon", Elem: strongObj},
			inst: Instance{"Weapon": Ref("")},
			want: nil,
		},
		{
			name: "missing value",
			prop: Property{Name: "Weapon", Elem: strongObj},
			inst: Instance{},
			want: nil,
		},
		{
			name: "array keeps duplicates and order",
			prop: Property{Name: "Loadout", Kind: Array, Elem: strongObj},
			inst: Instance{"Loadout": List(Ref("/Game/X.A"), Ref(""), Ref("/Game/X.A"), Ref("/Game/Y.B"))},
			want: []asset.ObjectRef{"/Game/X.A", "/Game/X.A", "/Game/Y.B"},
		},
		{
			name: "weak array yields nothing",
			prop: Property{Name: "Soft", Kind: Array, Elem: weakObj},
			inst: Instance{"Soft": List(Ref("/Game/X.A"))},
			want: nil,
		},
		{
			name: "map key and value",
			prop: Property{Name: "Table", Kind: Map, Elem: strongObj, MapValue: strongObj},
			inst: Instance{"Table": {Entries: []MapEntry{
				{Key: Ref("/Game/K.K"), Value: Ref("/Game/V.V")},
				{Key: Ref(""), Value: Ref("/Game/W.W")},
			}}},
			want: []asset.ObjectRef{"/Game/K.K", "/Game/V.V", "/Game/W.W"},
		},
		{
			name: "map with weak keys",
			prop: Property{Name: "Table", Kind: Map, Elem: weakObj, MapValue: strongObj},
			inst: Instance{"Table": {Entries: []MapEntry{
				{Key: Ref("/Game/K.K"), Value: Ref("/Game/V.V")},
			}}},
			want: []asset.ObjectRef{"/Game/V.V"},
		},
		{
			name: "struct one level",
			prop: Property{Name: "Config", Kind: Struct, Fields: []Property{
				{Name: "Mesh", Elem: strongObj},
				{Name: "Sounds", Kind: Array, Elem: strongObj},
				{Name: "Inner", Kind: Struct, Fields: []Property{{Name: "Deep", Elem: strongObj}}},
			}},
			inst: Instance{"Config": {Fields: Instance{
				"Mesh":   Ref("/Game/M.M"),
				"Sounds": List(Ref("/Game/S.S1"), Ref("/Game/S.S2")),
				"Inner":  {Fields: Instance{"Deep": Ref("/Game/D.D")}},
			}}},
			want: []asset.ObjectRef{"/Game/M.M", "/Game/S.S1", "/Game/S.S2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.prop.ObjectRefs(tt.inst)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ObjectRefs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectRefsNilInstance(t *testing.T) {
	p := Property{Name: "Weapon", Elem: strongObj}
	if got := p.ObjectRefs(nil); got != nil {
		t.Errorf("ObjectRefs(nil) = %v, want nil", got)
	}
}

func TestIsComponentRef(t *testing.T) {
	comp := Property{Name: "Mesh", Elem: ElemType{Object: true, Component: true}}
	if !comp.IsComponentRef() {
		t.Error("component object property should be a component ref")
	}
	arr := Property{Name: "Meshes", Kind: Array, Elem: ElemType{Object: true, Component: true}}
	if arr.IsComponentRef() {
		t.Error("arrays of components are not component refs")
	}
}

func TestIconTag(t *testing.T) {
	tests := map[ContainerKind]string{
		Scalar: "VariableList.TypeIcon",
		Array:  "VariableList.ArrayTypeIcon",
		Set:    "VariableList.SetTypeIcon",
		Map:    "VariableList.MapValueTypeIcon",
		Struct: "VariableList.TypeIcon",
	}
	for kind, want := range tests {
		if got := (Property{Kind: kind}).IconTag(); got != want {
			t.Errorf("IconTag(%s) = %q, want %q", kind, got, want)
		}
	}
}
