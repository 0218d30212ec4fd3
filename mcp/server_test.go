package mcp

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServerWithIO(nil, nil)
	if err := RegisterDefaultTools(s); err != nil {
		t.Fatalf("RegisterDefaultTools: %v", err)
	}
	RegisterDefaultResources(s)
	return s
}

func sendRequest(t *testing.T, s *Server, method string, id int, params interface{}) jsonrpcResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

func testTemplateArg() map[string]interface{} {
	return map[string]interface{}{
		"canvas": map[string]interface{}{"widthPx": 1000, "heightPx": 1400},
		"fields": []interface{}{
			map[string]interface{}{
				"id": "bl", "x": 80, "y": 60, "width": 360, "height": 34,
				"dataKey": "blNumber",
			},
		},
	}
}

func TestServerInitialize(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "initialize", 1, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "manifest-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "tools/list", 2, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]interface{})
	if !ok {
		t.Fatal("tools is not an array")
	}

	names := make(map[string]bool)
	for _, tl := range tools {
		names[tl.(map[string]interface{})["name"].(string)] = true
	}
	for _, want := range []string{
		"render_manifest", "render_batch", "export_html",
		"preview_layout", "compute_scale", "template_info",
	} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}

func TestRenderManifestTool(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "tools/call", 3, map[string]interface{}{
		"name": "render_manifest",
		"arguments": map[string]interface{}{
			"template": testTemplateArg(),
			"record":   map[string]interface{}{"blNumber": "LAD-2026-00815"},
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	raw, _ := json.Marshal(resp.Result)
	var result ToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool reported error: %+v", result.Content)
	}
	if len(result.Content) == 0 || !strings.Contains(result.Content[0].Text, "PDF created successfully") {
		t.Errorf("unexpected content: %+v", result.Content)
	}
}

func TestComputeScaleTool(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "tools/call", 4, map[string]interface{}{
		"name": "compute_scale",
		"arguments": map[string]interface{}{
			"canvasWidth":  1000,
			"canvasHeight": 1400,
			"mode":         "print",
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	raw, _ := json.Marshal(resp.Result)
	var result ToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if !strings.Contains(result.Content[0].Text, "scaleX") {
		t.Errorf("unexpected content: %s", result.Content[0].Text)
	}
}

func TestInvalidTemplateReportsToolError(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "tools/call", 5, map[string]interface{}{
		"name": "render_manifest",
		"arguments": map[string]interface{}{
			"template": map[string]interface{}{"fields": []interface{}{}},
		},
	})
	if resp.Error != nil {
		t.Fatalf("protocol error not expected: %v", resp.Error.Message)
	}

	raw, _ := json.Marshal(resp.Result)
	var result ToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for canvas-less template")
	}
}

func TestResourcesRead(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "resources/read", 6, map[string]interface{}{
		"uri": "manifest://template-schema",
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), "canvas") {
		t.Errorf("schema resource missing canvas documentation")
	}
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "bogus/method", 7, nil)
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected method-not-found, got %+v", resp.Error)
	}
}
