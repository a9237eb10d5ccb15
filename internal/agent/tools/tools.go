package tools

import (
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Ticket action tools
// ===================================

const (
	ToolTransferQueue = "transfer_queue"
	ToolAddTag        = "add_tag"
	ToolTransferUser  = "transfer_user"
)

// TransferQueueInput are the arguments of the transfer_queue tool.
type TransferQueueInput struct {
	Queue string `json:"queue"`
}

// AddTagInput are the arguments of the add_tag tool.
type AddTagInput struct {
	Tags []string `json:"tags"`
	Note string   `json:"note,omitempty"`
}

// TransferUserInput are the arguments of the transfer_user tool.
type TransferUserInput struct {
	User string `json:"user"`
}

// Specs returns the tool declarations offered to the model on every call.
// Dispatch happens in the engine; these only describe the contract.
func Specs() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolTransferQueue,
			Desc: "Transfere o ticket para uma fila específica.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"queue": {
					Type:     schema.String,
					Desc:     "Nome exato da fila para transferir.",
					Required: true,
				},
			}),
		},
		{
			Name: ToolAddTag,
			Desc: "Adiciona uma ou mais tags ao ticket e uma observação.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"tags": {
					Type:     schema.Array,
					Desc:     "Lista de nomes exatos das tags a adicionar.",
					Required: true,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
				},
				"note": {
					Type: schema.String,
					Desc: "Observação relevante sobre o atendimento.",
				},
			}),
		},
		{
			Name: ToolTransferUser,
			Desc: "Transfere o ticket para um usuário específico.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user": {
					Type:     schema.String,
					Desc:     "Nome exato do usuário para transferir.",
					Required: true,
				},
			}),
		},
	}
}
