package services_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/application/services"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatbot() *services.ChatbotService {
	return services.NewChatbotService(rand.New(rand.NewSource(1)), fixedClock(time.Date(2026, time.March, 2, 14, 5, 0, 0, time.UTC)))
}

func TestChatbot_Math(t *testing.T) {
	bot := newChatbot()

	tests := []struct {
		message string
		want    string
	}{
		{"Can you do 125 + 375?", "The result of 125 + 375 is 500"},
		{"what is 7 × 6", "The result of 7 * 6 is 42"},
		{"10 ÷ 4", "The result of 10 / 4 is 2.5"},
		{"12 - 20", "The result of 12 - 20 is -8"},
		{"please add 2 and 3", "The result of 2 + 3 is 5"},
		{"what is the product of 4 and 5", "The result of 4 * 5 is 20"},
		{"subtract 3 from 10", "The result of 3 - 10 is -7"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply, err := bot.Reply(tt.message)
			require.NoError(t, err)
			assert.Equal(t, services.ChatCategoryMath, reply.Category)
			assert.Equal(t, tt.want, reply.Reply)
		})
	}

	reply, err := bot.Reply("8 / 0")
	require.NoError(t, err)
	assert.Contains(t, reply.Reply, "divide by zero")
}

func TestChatbot_Categories(t *testing.T) {
	bot := newChatbot()

	tests := []struct {
		message string
		want    string
	}{
		{"Hello there", services.ChatCategoryGreetings},
		{"How do I find hospitals near me?", services.ChatCategoryHospitals},
		{"I need to book a consultation", services.ChatCategoryAppointment},
		{"this is an emergency", services.ChatCategoryEmergencies},
		{"does my insurance plan work", services.ChatCategoryInsurance},
		{"thanks a lot", services.ChatCategoryThanks},
		{"goodbye", services.ChatCategoryGoodbye},
		{"how are you", services.ChatCategoryHowAreYou},
		{"who are you", services.ChatCategoryAboutBot},
		{"tell me a joke", services.ChatCategoryJoke},
		{"what time is it", services.ChatCategoryTime},
		{"what is the date", services.ChatCategoryDate},
		{"purple elephants", services.ChatCategoryFallback},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply, err := bot.Reply(tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Category)
			assert.NotEmpty(t, reply.Reply)
		})
	}
}

func TestChatbot_PriorityAndWordMatching(t *testing.T) {
	bot := newChatbot()

	// greetings outrank hospitals
	reply, err := bot.Reply("hi, find me a hospital")
	require.NoError(t, err)
	assert.Equal(t, services.ChatCategoryGreetings, reply.Category)

	// "this" must not count as "hi"
	reply, err = bot.Reply("this clinic")
	require.NoError(t, err)
	assert.Equal(t, services.ChatCategoryHospitals, reply.Category)
}

func TestChatbot_TimeUsesClock(t *testing.T) {
	reply, err := newChatbot().Reply("What time is it?")
	require.NoError(t, err)
	assert.Equal(t, "The current time is 2:05 PM.", reply.Reply)
}

func TestChatbot_EmptyMessage(t *testing.T) {
	_, err := newChatbot().Reply("   ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestChatbot_Suggestions(t *testing.T) {
	assert.Contains(t, newChatbot().Suggestions(), "Tell me a joke")
}
