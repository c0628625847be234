package assistant

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
)

func compileModelGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	graphName string,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()

	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("%w: add model node: %v", contractx.ErrModelInvoke, err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, fmt.Errorf("%w: add edge start->model: %v", contractx.ErrModelInvoke, err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("%w: add edge model->end: %v", contractx.ErrModelInvoke, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", contractx.ErrModelInvoke, graphName, err)
	}
	return runner, nil
}
