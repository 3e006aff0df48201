package notify

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/event"
)

// LarkConfig holds Lark messaging configuration
type LarkConfig struct {
	AppID     string
	AppSecret string
	// RoleReceivers maps a workflow role to the Lark open_id that should
	// be messaged when that role is next to act.
	RoleReceivers map[string]string
}

// LarkDispatcher delivers transition notifications as Lark messages
type LarkDispatcher struct {
	client    *lark.Client
	receivers map[string]string
	logger    *zap.Logger
}

// NewLarkDispatcher creates a Lark-backed dispatcher
func NewLarkDispatcher(cfg LarkConfig, logger *zap.Logger) *LarkDispatcher {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelWarn),
		lark.WithEnableTokenCache(true),
	)
	return &LarkDispatcher{
		client:    client,
		receivers: cfg.RoleReceivers,
		logger:    logger,
	}
}

// Notify sends a text message to the receiver configured for the event's
// target role. Events without a target role (terminal transitions) are
// sent to the submitter's role channel when configured, otherwise dropped.
func (d *LarkDispatcher) Notify(ctx context.Context, evt *event.Event) error {
	receiveID, ok := d.receiverFor(evt.TargetRole)
	if !ok {
		d.logger.Debug("No receiver configured for role, dropping notification",
			zap.String("target_role", evt.TargetRole.String()),
			zap.String("event_type", evt.Type.String()))
		return nil
	}

	content, err := json.Marshal(map[string]string{"text": d.messageText(evt)})
	if err != nil {
		return fmt.Errorf("marshal message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(larkim.ReceiveIdTypeOpenId).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(larkim.MsgTypeText).
			Content(string(content)).
			Build()).
		Build()

	resp, err := d.client.Im.Message.Create(ctx, req)
	if err != nil {
		d.logger.Warn("Failed to send notification",
			zap.String("target_role", evt.TargetRole.String()),
			zap.Error(err))
		return fmt.Errorf("send notification: %w", err)
	}
	if !resp.Success() {
		d.logger.Warn("Notification API returned failure",
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("notification api error: code=%d msg=%s", resp.Code, resp.Msg)
	}

	d.logger.Info("Notification sent",
		zap.String("event_type", evt.Type.String()),
		zap.String("reference", evt.Reference),
		zap.String("target_role", evt.TargetRole.String()))
	return nil
}

func (d *LarkDispatcher) receiverFor(role entity.Role) (string, bool) {
	if role == "" {
		return "", false
	}
	id, ok := d.receivers[role.String()]
	return id, ok && id != ""
}

func (d *LarkDispatcher) messageText(evt *event.Event) string {
	switch evt.Type {
	case event.TypeRequisitionCreated:
		return fmt.Sprintf("Requisition %s submitted by %s awaits your approval.", evt.Reference, evt.ActorName)
	case event.TypeRequisitionApproved:
		return fmt.Sprintf("Requisition %s approved by %s and awaits your action.", evt.Reference, evt.ActorName)
	case event.TypeRequisitionOnHold:
		return fmt.Sprintf("Requisition %s placed on hold by %s: %s", evt.Reference, evt.ActorName, evt.Details)
	case event.TypeRequisitionRejected:
		return fmt.Sprintf("Requisition %s rejected by %s: %s", evt.Reference, evt.ActorName, evt.Details)
	case event.TypeRequisitionCompleted:
		return fmt.Sprintf("Requisition %s payment completed by %s.", evt.Reference, evt.ActorName)
	default:
		return fmt.Sprintf("Requisition %s: %s", evt.Reference, evt.Type)
	}
}
