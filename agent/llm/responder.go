package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
)

// Responder turns persona requests into chat-completion calls. One Responder
// is shared by every persona; the per-persona behavior lives entirely in the
// instructions, history, and tool lists it is handed.
type Responder struct {
	client *openaisdk.Client
	cfg    Config
}

var _ contractx.Responder = (*Responder)(nil)

func NewResponder(cfg Config) (*Responder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	client := openaisdk.NewClient(opts...)
	return &Responder{client: &client, cfg: cfg}, nil
}

func (r *Responder) Respond(ctx context.Context, req contractx.ResponderRequest) (contractx.ResponderResponse, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(r.cfg.Model),
		Messages:    r.buildMessages(req),
		Temperature: openaisdk.Float(r.cfg.Temperature),
	}
	if r.cfg.MaxCompletionToken != nil {
		params.MaxCompletionTokens = openaisdk.Int(int64(*r.cfg.MaxCompletionToken))
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}

	completion, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return contractx.ResponderResponse{}, fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.ResponderResponse{}, fmt.Errorf("%w: completion returned no choices", contractx.ErrModelInvoke)
	}

	message := completion.Choices[0].Message
	resp := contractx.ResponderResponse{Message: message.Content}
	for _, call := range message.ToolCalls {
		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return contractx.ResponderResponse{}, fmt.Errorf("%w: tool=%s arguments: %v", contractx.ErrSchemaViolation, call.Function.Name, err)
			}
		}
		resp.ToolRequests = append(resp.ToolRequests, contractx.ToolRequest{
			Tool: call.Function.Name,
			Args: args,
		})
	}
	return resp, nil
}

// buildMessages flattens the persona context into the wire shape. Tool
// entries are rendered as labeled user turns so the model sees tool outcomes
// without the call-id bookkeeping of native tool messages.
func (r *Responder) buildMessages(req contractx.ResponderRequest) []openaisdk.ChatCompletionMessageParamUnion {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.Instructions != "" {
		messages = append(messages, openaisdk.SystemMessage(req.Instructions))
	}
	for _, item := range req.History {
		switch item.Role {
		case contractx.RoleSystem:
			messages = append(messages, openaisdk.SystemMessage(item.Content))
		case contractx.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(item.Content))
		case contractx.RoleTool:
			messages = append(messages, openaisdk.UserMessage(fmt.Sprintf("[tool %s] %s", item.ToolName, item.Content)))
		default:
			messages = append(messages, openaisdk.UserMessage(item.Content))
		}
	}
	if req.Directive != "" {
		messages = append(messages, openaisdk.SystemMessage(req.Directive))
	}
	return messages
}

func buildTools(infos []contractx.ToolInfo) []openaisdk.ChatCompletionToolParam {
	tools := make([]openaisdk.ChatCompletionToolParam, 0, len(infos))
	for _, info := range infos {
		properties := map[string]any{}
		var required []string
		for _, param := range info.Params {
			properties[param.Name] = map[string]any{
				"type":        "string",
				"description": param.Desc,
			}
			if param.Required {
				required = append(required, param.Name)
			}
		}
		parameters := openaisdk.FunctionParameters{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			parameters["required"] = required
		}
		tools = append(tools, openaisdk.ChatCompletionToolParam{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        info.Name,
				Description: openaisdk.String(info.Desc),
				Parameters:  parameters,
			},
		})
	}
	return tools
}
