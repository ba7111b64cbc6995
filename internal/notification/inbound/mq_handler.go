package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/otpguard/internal/notification/usecase"
	"github.com/shandysiswandi/otpguard/internal/pkg/instrument"
	"github.com/shandysiswandi/otpguard/internal/pkg/messaging"
	"github.com/shandysiswandi/otpguard/internal/pkg/uid"
	"github.com/shandysiswandi/otpguard/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OTPDeliveryNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPDeliveryNotification")
	defer span.End()

	body := msg.Body()

	var payload event.OTPDeliveryMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp delivery", "msg_id", msg.ID(), "error", err)
		return nil
	}

	// the body carries the code, so only the id is logged
	slog.InfoContext(ctx, "consume: otp delivery", "delivery_id", payload.DeliveryID)

	return h.uc.ConsumeOTPDelivery(ctx, usecase.ConsumeOTPDeliveryInput{
		DeliveryID:  payload.DeliveryID,
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		Subject:     payload.Subject,
		TemplateID:  payload.TemplateID,
		Code:        payload.Code,
	})
}
