package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"autorent/internal/domain"
	"autorent/internal/models"

	"github.com/rs/zerolog"
)

const toolCancelReservation = "cancel_reservation"

// ErrRateLimited means the caller exhausted their chat quota for the window.
var ErrRateLimited = errors.New("chat rate limit exceeded")

var cancelReservationTool = Tool{
	Type: "function",
	Function: Function{
		Name:        toolCancelReservation,
		Description: "Cancel one of the current user's reservations. Only pending reservations can be cancelled.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"reservationId": {"type": "string", "description": "ID of the reservation to cancel"}
			},
			"required": ["reservationId"]
		}`),
	},
}

// Completer is the LLM round trip the assistant depends on.
type Completer interface {
	Complete(ctx context.Context, messages []Message, tools []Tool) (*Message, error)
}

// Assistant answers customer questions about the fleet and offices and can
// cancel the caller's own reservations through a tool call.
type Assistant struct {
	completer    Completer
	fleet        domain.FleetService
	offices      domain.OfficeService
	reservations domain.ReservationService
	state        domain.StateRepository
	logger       *zerolog.Logger
}

func New(completer Completer, fleet domain.FleetService, offices domain.OfficeService, reservations domain.ReservationService, state domain.StateRepository, logger *zerolog.Logger) *Assistant {
	return &Assistant{
		completer:    completer,
		fleet:        fleet,
		offices:      offices,
		reservations: reservations,
		state:        state,
		logger:       logger,
	}
}

// Chat runs one conversational turn. Anonymous callers get answers but no
// tool access; their history is not persisted.
func (a *Assistant) Chat(ctx context.Context, identity *models.Identity, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("empty message")
	}

	if identity != nil && a.state != nil {
		allowed, err := a.state.CheckRateLimit(ctx, "chat:"+identity.ID,
			models.RateLimitRequests, models.RateLimitWindow*time.Second)
		if err != nil {
			a.logger.Warn().Err(err).Msg("assistant: rate limit check failed")
		} else if !allowed {
			return "", ErrRateLimited
		}
	}

	history := a.loadHistory(ctx, identity)

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: a.systemPrompt(ctx)})
	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, Message{Role: "user", Content: message})

	reply, err := a.completer.Complete(ctx, messages, []Tool{cancelReservationTool})
	if err != nil {
		return "", err
	}

	if len(reply.ToolCalls) > 0 {
		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			result := a.executeTool(ctx, identity, call)
			messages = append(messages, Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
		}

		reply, err = a.completer.Complete(ctx, messages, nil)
		if err != nil {
			return "", err
		}
	}

	a.saveHistory(ctx, identity, history, message, reply.Content)
	return reply.Content, nil
}

func (a *Assistant) executeTool(ctx context.Context, identity *models.Identity, call ToolCall) string {
	if call.Function.Name != toolCancelReservation {
		return fmt.Sprintf("unknown tool %q", call.Function.Name)
	}
	if identity == nil {
		return "error: the user is not signed in, cancellation requires authentication"
	}

	var args struct {
		ReservationID string `json:"reservationId"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args.ReservationID == "" {
		return "error: reservationId argument is missing or malformed"
	}

	if _, err := a.reservations.CancelByOwner(ctx, args.ReservationID, identity.ID); err != nil {
		a.logger.Warn().Err(err).Str("reservation_id", args.ReservationID).Msg("assistant cancel failed")
		return fmt.Sprintf("error: could not cancel reservation: %v", err)
	}
	return fmt.Sprintf("reservation %s cancelled", args.ReservationID)
}

func (a *Assistant) systemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for a car rental service. ")
	b.WriteString("Answer questions about cars, offices and reservations. ")
	b.WriteString("Use the cancel_reservation tool only when the user explicitly asks to cancel a reservation they own.\n")

	if cars, err := a.fleet.ListCars(ctx, models.CarFilter{}); err == nil && len(cars) > 0 {
		b.WriteString("\nAvailable cars:\n")
		for _, car := range cars {
			fmt.Fprintf(&b, "- %s %s (%d), %.2f per day, id=%s\n", car.Make, car.Model, car.Year, car.PricePerDay, car.ID)
		}
	}

	if offices, err := a.offices.ListOffices(ctx); err == nil && len(offices) > 0 {
		b.WriteString("\nOffices:\n")
		for _, office := range offices {
			fmt.Fprintf(&b, "- %s, %s\n", office.Name, office.Address)
		}
	}

	return b.String()
}

func (a *Assistant) loadHistory(ctx context.Context, identity *models.Identity) []models.ChatMessage {
	if identity == nil || a.state == nil {
		return nil
	}
	state, err := a.state.GetChatState(ctx, identity.ID)
	if err != nil {
		a.logger.Warn().Err(err).Msg("assistant: load chat state failed")
		return nil
	}
	if state == nil {
		return nil
	}
	return state.Messages
}

func (a *Assistant) saveHistory(ctx context.Context, identity *models.Identity, history []models.ChatMessage, question, answer string) {
	if identity == nil || a.state == nil {
		return
	}

	history = append(history,
		models.ChatMessage{Role: "user", Content: question},
		models.ChatMessage{Role: "assistant", Content: answer},
	)
	if len(history) > models.ChatHistoryLimit {
		history = history[len(history)-models.ChatHistoryLimit:]
	}

	state := &models.ChatState{UserID: identity.ID, Messages: history}
	if err := a.state.SetChatState(ctx, state); err != nil {
		a.logger.Warn().Err(err).Msg("assistant: save chat state failed")
	}
}
