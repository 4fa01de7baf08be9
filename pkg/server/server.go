package server

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/goalgorithm-mcp/internal/logger"
	"github.com/richard-senior/goalgorithm-mcp/pkg/protocol"
	"github.com/richard-senior/goalgorithm-mcp/pkg/tools"
	"github.com/richard-senior/goalgorithm-mcp/pkg/transport"
)

// Server represents an MCP server
type Server struct {
	transport transport.Transport
	handlers  map[string]HandlerFunc
	tools     []protocol.Tool
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params interface{}) (interface{}, error)

// Singleton instance
var (
	instance *Server
	once     sync.Once
	mu       sync.Mutex
)

// GetInstance returns the singleton instance of the Server
func GetInstance() *Server {
	if instance == nil {
		instance = InitInstance(transport.NewStdioTransport())
	}
	return instance
}

// InitInstance initializes the singleton instance of the Server with the specified transport
func InitInstance(t transport.Transport) *Server {
	once.Do(func() {
		instance = &Server{
			transport: t,
			handlers:  make(map[string]HandlerFunc),
			tools:     []protocol.Tool{},
		}
		instance.RegisterDefaultTools()
	})
	return instance
}

// RegisterTool registers a tool with the server
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	mu.Lock()
	defer mu.Unlock()

	s.tools = append(s.tools, tool)
	s.handlers[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	mu.Lock()
	defer mu.Unlock()
	return s.tools
}

// RegisterDefaultTools registers all the default tools with the server
func (s *Server) RegisterDefaultTools() {
	logger.Info("Registering default tools...")

	predictTool := tools.PredictMatchTool()
	predictTool.Name = "mcp___" + predictTool.Name
	s.RegisterTool(predictTool, tools.HandlePredictMatchTool)

	leaguesTool := tools.ListLeaguesTool()
	leaguesTool.Name = "mcp___" + leaguesTool.Name
	s.RegisterTool(leaguesTool, tools.HandleListLeaguesTool)

	tableTool := tools.LeagueTableTool()
	tableTool.Name = "mcp___" + tableTool.Name
	s.RegisterTool(tableTool, tools.HandleLeagueTableTool)

	// Register built-in handlers
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodInitialized)] = s.handleInitialized
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
}

// Start starts the server and begins processing requests
func (s *Server) Start() error {
	logger.Info("Starting MCP server")

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests continuously processes incoming requests
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			return err
		}

		// A nil response is not an error, it just means no response is required
		resp := s.handleRequest(req)
		if resp == nil {
			continue
		}

		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// handleRequest processes a request and returns a response
func (s *Server) handleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)

	// Notifications require no response
	if strings.HasPrefix(req.Method, "notifications/") {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	resp := &protocol.JsonRpcResponse{
		JsonRPC: protocol.JsonRpcVersion,
		ID:      req.ID,
	}

	var handler HandlerFunc
	var params any

	if req.Method == string(protocol.MethodInvokeTool) {
		// Legacy invoke_tool carries the tool name inside the params
		var invokeParams map[string]any
		if err := json.Unmarshal(req.Params, &invokeParams); err != nil {
			resp.Error = &protocol.JsonRpcError{
				Code:    protocol.ErrInvalidParams,
				Message: "Invalid parameters for invoke_tool: " + err.Error(),
			}
			return resp
		}

		toolName, ok := invokeParams["name"].(string)
		if !ok {
			resp.Error = &protocol.JsonRpcError{
				Code:    protocol.ErrInvalidParams,
				Message: "Missing tool name in invoke_tool parameters",
			}
			return resp
		}

		handler = s.lookupToolHandler(toolName)
		params = invokeParams["parameters"]
	} else {
		handler = s.handlers[req.Method]
		params = req.Params
	}

	if handler == nil {
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
		return resp
	}

	result, err := handler(params)

	if err == nil && result == nil {
		return nil
	}

	if err != nil {
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrToolExecutionFailed,
			Message: err.Error(),
		}
		return resp
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrInternal,
			Message: "Failed to marshal result: " + err.Error(),
		}
		return resp
	}
	resp.Result = resultBytes

	return resp
}

// lookupToolHandler finds a tool handler, tolerating the mcp___ prefix
// being present or absent in the requested name
func (s *Server) lookupToolHandler(toolName string) HandlerFunc {
	if handler := s.handlers[toolName]; handler != nil {
		return handler
	}
	if strings.HasPrefix(toolName, "mcp___") {
		return s.handlers[strings.TrimPrefix(toolName, "mcp___")]
	}
	return s.handlers["mcp___"+toolName]
}

// handleToolsList handles the tools/list method
func (s *Server) handleToolsList(params interface{}) (interface{}, error) {
	logger.Info("Handling tools/list request")

	toolsResponse := struct {
		Tools []protocol.Tool `json:"tools"`
	}{
		Tools: s.tools,
	}

	return toolsResponse, nil
}

// handleInitialize handles the initialize method
func (s *Server) handleInitialize(params interface{}) (interface{}, error) {
	logger.Info("Handling initialize request with", len(s.tools), "tools registered")

	// Echo back the client's protocol version where possible
	requestedProtocolVersion := "2024-11-05"

	var paramsMap map[string]interface{}
	if params != nil {
		if jsonBytes, ok := params.(json.RawMessage); ok {
			json.Unmarshal(jsonBytes, &paramsMap)
		} else if directMap, ok := params.(map[string]interface{}); ok {
			paramsMap = directMap
		}

		if version, exists := paramsMap["protocolVersion"].(string); exists {
			requestedProtocolVersion = version
		}
	}

	capabilities := map[string]any{}
	if len(s.tools) > 0 {
		capabilities["tools"] = map[string]any{
			"listChanged": true,
		}
	}

	initializeResponse := struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}{
		ProtocolVersion: requestedProtocolVersion,
		Capabilities:    capabilities,
		ServerInfo: struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		}{
			Name:    "goalgorithm",
			Version: "1.0.0",
		},
	}

	return initializeResponse, nil
}

// handleInitialized handles the initialized notification
// 'initialized' does not require a response
func (s *Server) handleInitialized(params interface{}) (interface{}, error) {
	logger.Info("Handling initialized notification")
	return nil, nil
}

func (s *Server) handleToolsCall(params any) (any, error) {
	logger.Info("Handling tools/call request")

	type ToolCallParams struct {
		Arguments map[string]any `json:"arguments"`
		Name      string         `json:"name"`
	}

	var toolCallParams ToolCallParams

	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %v", err)
	}

	if err := json.Unmarshal(paramsBytes, &toolCallParams); err != nil {
		return nil, fmt.Errorf("invalid tools/call parameters: %v", err)
	}

	logger.Info("Tool call requested for:", toolCallParams.Name)

	handler := s.lookupToolHandler(toolCallParams.Name)
	if handler == nil {
		return nil, fmt.Errorf("tool not found: %s", toolCallParams.Name)
	}

	result, err := handler(toolCallParams.Arguments)
	if err != nil {
		return nil, fmt.Errorf("tool execution failed: %v", err)
	}

	return result, nil
}
