package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/cnap-oss/clawboard/internal/controller"
	"github.com/spf13/cobra"
)

var errInvalidJSON = errors.New("Invalid JSON argument")

// invokeFunc는 디코딩된 JSON 인자로 컨트롤러 연산 하나를 실행합니다.
type invokeFunc func(ctx context.Context, ctrl *controller.Controller, raw []byte) (any, error)

// operation은 "<엔티티>:<동작>" 명령 하나의 정의입니다.
type operation struct {
	name    string
	short   string
	example string
	schema  string
	invoke  invokeFunc
}

// withInput은 입력 구조체를 받는 컨트롤러 메서드를 invokeFunc로 감쌉니다.
func withInput[In, Out any](fn func(*controller.Controller, context.Context, In) (Out, error)) invokeFunc {
	return func(ctx context.Context, ctrl *controller.Controller, raw []byte) (any, error) {
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, errInvalidJSON
		}
		return fn(ctrl, ctx, in)
	}
}

// noInput은 인자가 없는 목록 메서드를 invokeFunc로 감쌉니다.
func noInput[Out any](fn func(*controller.Controller, context.Context) (Out, error)) invokeFunc {
	return func(ctx context.Context, ctrl *controller.Controller, _ []byte) (any, error) {
		return fn(ctrl, ctx)
	}
}

func operations() []operation {
	return []operation{
		// agents
		{
			name:   "agents:list",
			short:  "List all agents",
			schema: schemaAny,
			invoke: noInput((*controller.Controller).ListAgents),
		},
		{
			name:    "agents:get",
			short:   "Get an agent by id",
			example: `clawboard agents:get '{"id":"<agent-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).GetAgent),
		},
		{
			name:    "agents:create",
			short:   "Create an agent",
			example: `clawboard agents:create '{"name":"Aria","role":"Researcher","badge":"LEAD"}'`,
			schema: objectSchema(props{
				"name":          typeString,
				"role":          typeNullableString,
				"badge":         typeNullableString,
				"avatar":        typeNullableString,
				"status":        typeString,
				"currentTaskId": typeNullableString,
				"sessionKey":    typeNullableString,
			}),
			invoke: withInput((*controller.Controller).CreateAgent),
		},
		{
			name:    "agents:update",
			short:   "Update agent fields; null clears an optional field",
			example: `clawboard agents:update '{"id":"<agent-id>","status":"active"}'`,
			schema: objectSchema(props{
				"id":            typeString,
				"name":          typeNullableString,
				"role":          typeNullableString,
				"badge":         typeNullableString,
				"avatar":        typeNullableString,
				"status":        typeNullableString,
				"currentTaskId": typeNullableString,
				"sessionKey":    typeNullableString,
			}),
			invoke: withInput((*controller.Controller).UpdateAgent),
		},
		{
			name:    "agents:delete",
			short:   "Delete an agent",
			example: `clawboard agents:delete '{"id":"<agent-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).DeleteAgent),
		},

		// tasks
		{
			name:   "tasks:list",
			short:  "List all tasks with their assignees",
			schema: schemaAny,
			invoke: noInput((*controller.Controller).ListTasks),
		},
		{
			name:    "tasks:get",
			short:   "Get a task with its assignees",
			example: `clawboard tasks:get '{"id":"<task-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).GetTask),
		},
		{
			name:    "tasks:create",
			short:   "Create a task",
			example: `clawboard tasks:create '{"title":"Survey sources","assigneeIds":["<agent-id>"]}'`,
			schema: objectSchema(props{
				"title":       typeString,
				"description": typeNullableString,
				"status":      typeString,
				"assigneeIds": typeIDList,
			}),
			invoke: withInput((*controller.Controller).CreateTask),
		},
		{
			name:    "tasks:update",
			short:   "Update task title, description or status",
			example: `clawboard tasks:update '{"id":"<task-id>","status":"review"}'`,
			schema: objectSchema(props{
				"id":          typeString,
				"title":       typeNullableString,
				"description": typeNullableString,
				"status":      typeNullableString,
			}),
			invoke: withInput((*controller.Controller).UpdateTask),
		},
		{
			name:    "tasks:assign",
			short:   "Assign agents to a task",
			example: `clawboard tasks:assign '{"id":"<task-id>","agentIds":["<agent-id>"]}'`,
			schema:  objectSchema(props{"id": typeString, "agentIds": typeIDList}),
			invoke:  withInput((*controller.Controller).AssignTask),
		},
		{
			name:    "tasks:unassign",
			short:   "Remove agents from a task",
			example: `clawboard tasks:unassign '{"id":"<task-id>","agentIds":["<agent-id>"]}'`,
			schema:  objectSchema(props{"id": typeString, "agentIds": typeIDList}),
			invoke:  withInput((*controller.Controller).UnassignTask),
		},
		{
			name:    "tasks:delete",
			short:   "Delete a task",
			example: `clawboard tasks:delete '{"id":"<task-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).DeleteTask),
		},

		// messages
		{
			name:    "messages:list",
			short:   "List messages, optionally for one task",
			example: `clawboard messages:list '{"taskId":"<task-id>"}'`,
			schema:  objectSchema(props{"taskId": typeString}),
			invoke:  withInput((*controller.Controller).ListMessages),
		},
		{
			name:    "messages:get",
			short:   "Get a message with its attachments",
			example: `clawboard messages:get '{"id":"<message-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).GetMessage),
		},
		{
			name:    "messages:create",
			short:   "Post a message on a task",
			example: `clawboard messages:create '{"taskId":"<task-id>","fromAgentId":"<agent-id>","content":"Started"}'`,
			schema: objectSchema(props{
				"taskId":        typeString,
				"fromAgentId":   typeNullableString,
				"content":       typeString,
				"attachmentIds": typeIDList,
			}),
			invoke: withInput((*controller.Controller).CreateMessage),
		},
		{
			name:    "messages:attach",
			short:   "Attach documents to a message",
			example: `clawboard messages:attach '{"id":"<message-id>","documentIds":["<document-id>"]}'`,
			schema:  objectSchema(props{"id": typeString, "documentIds": typeIDList}),
			invoke:  withInput((*controller.Controller).AttachToMessage),
		},

		// documents
		{
			name:   "documents:list",
			short:  "List all documents",
			schema: schemaAny,
			invoke: noInput((*controller.Controller).ListDocuments),
		},
		{
			name:    "documents:get",
			short:   "Get a document by id",
			example: `clawboard documents:get '{"id":"<document-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).GetDocument),
		},
		{
			name:    "documents:create",
			short:   "Create a document",
			example: `clawboard documents:create '{"title":"Findings","type":"research","content":"..."}'`,
			schema: objectSchema(props{
				"title":   typeString,
				"content": typeNullableString,
				"type":    typeNullableString,
				"taskId":  typeNullableString,
				"agentId": typeNullableString,
			}),
			invoke: withInput((*controller.Controller).CreateDocument),
		},
		{
			name:    "documents:delete",
			short:   "Delete a document",
			example: `clawboard documents:delete '{"id":"<document-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).DeleteDocument),
		},

		// audits
		{
			name:    "audits:list",
			short:   "List audits, optionally for one task",
			example: `clawboard audits:list '{"taskId":"<task-id>"}'`,
			schema:  objectSchema(props{"taskId": typeString}),
			invoke:  withInput((*controller.Controller).ListAudits),
		},
		{
			name:    "audits:create",
			short:   "Record an audit for a task",
			example: `clawboard audits:create '{"taskId":"<task-id>","threatLevel":"warning","content":"..."}'`,
			schema: objectSchema(props{
				"taskId":      typeString,
				"threatLevel": typeString,
				"content":     typeNullableString,
			}),
			invoke: withInput((*controller.Controller).CreateAudit),
		},

		// activities
		{
			name:   "activities:list",
			short:  "List the activity timeline, newest first",
			schema: schemaAny,
			invoke: noInput((*controller.Controller).ListActivities),
		},
		{
			name:    "activities:create",
			short:   "Record an activity",
			example: `clawboard activities:create '{"type":"task_updated","message":"Checked in"}'`,
			schema: objectSchema(props{
				"type":    typeString,
				"message": typeString,
				"agentId": typeNullableString,
				"taskId":  typeNullableString,
			}),
			invoke: withInput((*controller.Controller).CreateActivity),
		},

		// notifications
		{
			name:    "notifications:list",
			short:   "List notifications",
			example: `clawboard notifications:list '{"agentId":"<agent-id>","undelivered":true}'`,
			schema: objectSchema(props{
				"agentId":     typeString,
				"undelivered": typeBoolean,
				"oldestFirst": typeBoolean,
				"afterId":     typeString,
				"limit":       typeLimit,
			}),
			invoke: withInput((*controller.Controller).ListNotifications),
		},
		{
			name:    "notifications:get",
			short:   "Get a notification by id",
			example: `clawboard notifications:get '{"id":"<notification-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).GetNotification),
		},
		{
			name:    "notifications:create",
			short:   "Queue a notification for an agent",
			example: `clawboard notifications:create '{"mentionedAgentId":"<agent-id>","content":"Review please"}'`,
			schema: objectSchema(props{
				"mentionedAgentId": typeString,
				"content":          typeString,
			}),
			invoke: withInput((*controller.Controller).CreateNotification),
		},
		{
			name:    "notifications:deliver",
			short:   "Mark a notification as delivered",
			example: `clawboard notifications:deliver '{"id":"<notification-id>"}'`,
			schema:  schemaID,
			invoke:  withInput((*controller.Controller).DeliverNotification),
		},
	}
}

// buildOperationCommand는 operation 하나를 cobra 명령으로 만듭니다.
func buildOperationCommand(a *app, op operation) *cobra.Command {
	return &cobra.Command{
		Use:     op.name + " ['<json>']",
		Short:   op.short,
		Example: op.example,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := "{}"
			if len(args) == 1 {
				raw = args[0]
			}
			return runOperation(cmd.Context(), a, op, raw, cmd.OutOrStdout())
		},
	}
}

// runOperation은 인자를 검증하고 연산을 실행한 뒤 결과를 JSON으로 출력합니다.
func runOperation(ctx context.Context, a *app, op operation, raw string, out io.Writer) error {
	schema, err := compileSchema(op.name, op.schema)
	if err != nil {
		return err
	}
	if err := validateArgument(schema, raw); err != nil {
		return err
	}

	ctrl, err := a.controller(ctx)
	if err != nil {
		return err
	}
	result, err := op.invoke(ctx, ctrl, []byte(raw))
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

// printJSON은 v를 두 칸 들여쓰기 JSON으로 출력합니다.
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
