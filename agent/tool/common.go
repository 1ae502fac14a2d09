package tool

import (
	"fmt"
	"slices"

	contractx "github.com/cartuplabs/cartup-agent/agent/contract"
	statex "github.com/cartuplabs/cartup-agent/agent/state"
)

func executeSetUser(session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	userID, ok := idArg(args, "user_id")
	if !ok {
		return missingArg(tool, "user_id"), nil
	}
	session.UserID = userID
	return contractx.ToolResult{
		Tool:   tool,
		Result: fmt.Sprintf("User set to %s", userID),
	}, nil
}

func executeSetCurrentOrder(session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	orderID, ok := idArg(args, "order_id")
	if !ok {
		return missingArg(tool, "order_id"), nil
	}
	session.CurrentOrderID = orderID
	return contractx.ToolResult{
		Tool:   tool,
		Result: fmt.Sprintf("Current order set to %s", orderID),
	}, nil
}

func executeSetLanguage(session *statex.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
	language, ok := stringArg(args, "language")
	if !ok {
		return missingArg(tool, "language"), nil
	}
	if !slices.Contains(statex.SupportedLanguages, language) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: "Invalid language code. Please use 'en-IN' for English or 'bn-BD' for Bangladesh Bengali.",
		}, nil
	}
	session.Language = language

	langName := "English"
	if language == "bn-BD" {
		langName = "Bengali (Bangladesh)"
	}
	return contractx.ToolResult{
		Tool:   tool,
		Result: fmt.Sprintf("Language set to %s (%s). All responses will now be in %s.", langName, language, langName),
	}, nil
}
