package lsp

import (
	"testing"

	"devcss.dev/inspector/internal/documents"
	"devcss.dev/inspector/internal/inspector"
	"devcss.dev/inspector/lsp/types"
	"github.com/stretchr/testify/assert"
)

// Simple tests for server methods that don't require complex setup

func TestServer_AllDocuments(t *testing.T) {
	server := &Server{
		documents: documents.NewManager(),
		sheets:    make(map[string]*inspector.InspectorStyleSheet),
	}

	_ = server.documents.DidOpen("file:///test1.css", "css", 1, ".button { }")
	_ = server.documents.DidOpen("file:///test2.css", "css", 1, ".link { }")

	all := server.AllDocuments()
	assert.Len(t, all, 2)
}

func TestServer_GetSetConfig(t *testing.T) {
	server := &Server{
		documents: documents.NewManager(),
		sheets:    make(map[string]*inspector.InspectorStyleSheet),
	}

	newConfig := types.ServerConfig{
		Strict:      true,
		DocumentURL: "file:///workspace",
	}
	server.SetConfig(newConfig)

	config := server.GetConfig()
	assert.True(t, config.Strict)
	assert.Equal(t, "file:///workspace", config.DocumentURL)
}

func TestServer_RootPaths(t *testing.T) {
	server := &Server{
		documents: documents.NewManager(),
		sheets:    make(map[string]*inspector.InspectorStyleSheet),
	}

	server.SetRootURI("file:///workspace")
	assert.Equal(t, "file:///workspace", server.RootURI())

	server.SetRootPath("/workspace")
	assert.Equal(t, "/workspace", server.RootPath())
}
