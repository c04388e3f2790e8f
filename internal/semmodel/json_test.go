package semmodel_test

import (
	"testing"

	"openfxc-ir/internal/semmodel"
)

const sampleDocument = `{
  "profile": "ps_2_0",
  "entryPoints": [{"name": "main", "stage": "Pixel", "symbolId": 1}],
  "symbols": [
    {"id": 1, "kind": "Function", "name": "main", "type": "float4", "declNodeId": 100},
    {"id": 2, "kind": "Parameter", "name": "v1", "type": "float4", "parentSymbolId": 1, "semantic": "POSITION0"}
  ],
  "types": {"110": "float4"},
  "syntax": {
    "nodes": [
      {"id": 100, "kind": "Block", "children": [{"role": "stmt", "nodeId": 101}]},
      {"id": 101, "kind": "ReturnStatement", "children": [{"role": "value", "nodeId": 110}]},
      {"id": 110, "kind": "Identifier", "referencedSymbolId": 2}
    ]
  },
  "techniques": [
    {
      "name": "Main",
      "passes": [
        {
          "name": "P0",
          "bindings": [{"stage": "Pixel", "profile": "ps_2_0", "entry": "main"}],
          "states": [{"name": "ZWrite", "value": "On"}]
        }
      ]
    }
  ]
}`

func TestDecodeWellFormedDocument(t *testing.T) {
	m, err := semmodel.Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if m.Profile != "ps_2_0" {
		t.Fatalf("expected profile ps_2_0, got %q", m.Profile)
	}
	if len(m.EntryPoints) != 1 || m.EntryPoints[0].Name != "main" {
		t.Fatalf("unexpected entry points: %+v", m.EntryPoints)
	}
	if len(m.Symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(m.Symbols))
	}
	if m.Types[110] != "float4" {
		t.Fatalf("expected node 110's type to decode to float4, got %q", m.Types[110])
	}
	if len(m.Nodes) != 3 {
		t.Fatalf("expected 3 syntax nodes, got %d", len(m.Nodes))
	}
	if len(m.Techniques) != 1 || m.Techniques[0].Name != "Main" {
		t.Fatalf("unexpected techniques: %+v", m.Techniques)
	}
	binding := m.Techniques[0].Passes[0].Bindings[0]
	if binding.Stage != "Pixel" || binding.Entry != "main" {
		t.Fatalf("unexpected binding: %+v", binding)
	}
}

func TestDecodeMalformedJSONIsAnError(t *testing.T) {
	_, err := semmodel.Decode([]byte("{not json"))
	if err == nil {
		t.Fatal("expected a decode error for malformed JSON")
	}
}

func TestDecodeIgnoresNonNumericTypeKeys(t *testing.T) {
	m, err := semmodel.Decode([]byte(`{"profile":"ps_2_0","types":{"abc":"float"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(m.Types) != 0 {
		t.Fatalf("expected a non-numeric type key to be skipped, got %+v", m.Types)
	}
}

func TestDecodeEmptyDocumentYieldsEmptyModel(t *testing.T) {
	m, err := semmodel.Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if m.Profile != "" || len(m.EntryPoints) != 0 || len(m.Symbols) != 0 || len(m.Nodes) != 0 {
		t.Fatalf("expected a zero-value model, got %+v", m)
	}
}
