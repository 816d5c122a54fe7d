package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/meeting-scheduler/internal/application"
	"github.com/example/meeting-scheduler/internal/logging"
)

var (
	errBadRequestBody   = errors.New("無効なリクエスト形式です。")
	errInvalidMeetingID = errors.New("無効な会議 ID です。")
	errInvalidUserID    = errors.New("無効なユーザー ID です。")
	errInvalidLimit     = errors.New("limit は 0 以上の整数で指定してください。")
	errTooManyRequests  = errors.New("リクエストが多すぎます。しばらくしてから再試行してください。")
	errCalendarTooLarge = errors.New("カレンダーのサイズが上限を超えています。")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var unknown *application.UnknownParticipantsError
	var vErr *application.ValidationError

	switch {
	case errors.As(err, &vErr) && vErr.HasErrors():
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   "入力内容に誤りがあります。",
			Errors:    localizeValidationErrors(vErr),
		})
	case errors.As(err, &unknown):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode:      "UNKNOWN_PARTICIPANT",
			Message:        "存在しないユーザーが参加者に含まれています。",
			ParticipantIDs: unknown.IDs,
		})
	case errors.Is(err, application.ErrNoSlotAvailable):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "NO_SLOT_AVAILABLE",
			Message:   "指定された期間に全員が参加できる時間帯がありません。",
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "同じ ID の会議が既に存在します。",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "指定されたリソースが見つかりません。"})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, r.logger)
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusConflict:
		return "要求はリソースの現在の状態と競合しています。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	case http.StatusRequestEntityTooLarge:
		return "リクエストが大きすぎます。"
	case http.StatusTooManyRequests:
		return "リクエストが多すぎます。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "名前は必須です。"
	case "at least one participant is required":
		return "少なくとも 1 名の参加者を指定してください。"
	case "earliest start is required":
		return "開始可能日時は必須です。"
	case "latest end is required":
		return "終了期限は必須です。"
	case "earliest start must be before latest end":
		return "開始可能日時は終了期限より前である必要があります。"
	case "duration does not fit in the requested window":
		return "所要時間が指定された期間に収まりません。"
	case "start is required":
		return "開始日時は必須です。"
	case "end is required":
		return "終了日時は必須です。"
	case "start must be before end":
		return "終了日時は開始日時より後である必要があります。"
	case "id must not be negative":
		return "ID は 0 以上で指定してください。"
	case "id is out of range":
		return "ID が範囲外です。"
	default:
		var lo, hi int
		if _, err := fmt.Sscanf(message, "duration must be between %d and %d minutes", &lo, &hi); err == nil {
			return fmt.Sprintf("所要時間は %d 分以上 %d 分以下で指定してください。", lo, hi)
		}
		if _, err := fmt.Sscanf(message, "name must be at most %d characters", &hi); err == nil {
			return fmt.Sprintf("名前は %d 文字以内で指定してください。", hi)
		}
		return message
	}
}

type errorResponse struct {
	ErrorCode      string            `json:"error_code,omitempty"`
	Message        string            `json:"message"`
	Errors         map[string]string `json:"errors,omitempty"`
	ParticipantIDs []int             `json:"participantIds,omitempty"`
}
