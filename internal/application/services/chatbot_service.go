package services

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

// Chat reply categories
const (
	ChatCategoryMath        = "math"
	ChatCategoryGreetings   = "greetings"
	ChatCategoryHospitals   = "hospitals"
	ChatCategoryAppointment = "appointments"
	ChatCategoryEmergencies = "emergencies"
	ChatCategoryInsurance   = "insurance"
	ChatCategoryThanks      = "thanks"
	ChatCategoryGoodbye     = "goodbye"
	ChatCategoryHowAreYou   = "how_are_you"
	ChatCategoryAboutBot    = "about_bot"
	ChatCategoryJoke        = "joke"
	ChatCategoryTime        = "time"
	ChatCategoryDate        = "date"
	ChatCategoryFallback    = "fallback"
)

type chatIntent struct {
	category  string
	keywords  []string
	responses []string
}

// Checked in order; the first category with a matching keyword wins.
var chatIntents = []chatIntent{
	{
		category: ChatCategoryGreetings,
		keywords: []string{"hello", "hi", "hey", "greetings", "howdy", "morning", "afternoon", "evening"},
		responses: []string{
			"Hello! Welcome to Care Connect. How can I help you today?",
			"Hi there! I can help you find hospitals, book appointments or answer questions.",
			"Hey! What can I do for you today?",
		},
	},
	{
		category: ChatCategoryHospitals,
		keywords: []string{"hospital", "hospitals", "clinic", "medical center", "healthcare", "facility", "find", "search", "locate"},
		responses: []string{
			"You can search for hospitals near you from the Find Hospitals page. Share your location for the closest results.",
			"Looking for care nearby? Filter hospitals by specialty, city or rating on the search page.",
			"I can help you find a hospital. Try searching by specialty or by your city or ZIP code.",
		},
	},
	{
		category: ChatCategoryAppointment,
		keywords: []string{"appointment", "schedule", "book", "visit", "meet", "consultation"},
		responses: []string{
			"To book an appointment, open a hospital's page and pick a free half-hour slot.",
			"Appointments can be scheduled between 9:00 and 17:00. Sign in to see and manage your bookings.",
			"You can view, reschedule or cancel your appointments from your dashboard.",
		},
	},
	{
		category: ChatCategoryEmergencies,
		keywords: []string{"emergency", "urgent", "critical", "ambulance", "immediate", "help"},
		responses: []string{
			"If this is a medical emergency, call 911 right away.",
			"For urgent symptoms please call 911 or go to the nearest emergency room.",
			"In an emergency do not wait. Call 911 or your local emergency number now.",
		},
	},
	{
		category: ChatCategoryInsurance,
		keywords: []string{"insurance", "coverage", "plan", "accept", "payment", "cost", "billing"},
		responses: []string{
			"Insurance coverage varies by hospital. Please contact the facility to confirm your plan is accepted.",
			"Most listed hospitals accept major insurance plans. Check with the hospital's billing office for details.",
			"For questions about costs and billing, the hospital's patient services team is the best contact.",
		},
	},
	{
		category: ChatCategoryThanks,
		keywords: []string{"thank", "thanks", "appreciate", "grateful", "helpful"},
		responses: []string{
			"You're welcome! Is there anything else I can help with?",
			"Happy to help! Take care.",
			"Glad I could help. Let me know if you need anything else.",
		},
	},
	{
		category: ChatCategoryGoodbye,
		keywords: []string{"bye", "goodbye", "see you", "later", "farewell", "exit", "quit"},
		responses: []string{
			"Goodbye! Stay healthy.",
			"Take care! Come back any time you need help.",
			"See you later! Wishing you good health.",
		},
	},
	{
		category: ChatCategoryHowAreYou,
		keywords: []string{"how are you", "how you doing", "how is it going", "how are things", "what's up"},
		responses: []string{
			"I'm doing well, thanks for asking! How can I help you?",
			"All systems running smoothly. What can I do for you?",
			"I'm great! Ready to help you find the care you need.",
		},
	},
	{
		category: ChatCategoryAboutBot,
		keywords: []string{"who are you", "what are you", "about you", "your purpose", "your function", "your job"},
		responses: []string{
			"I'm the Care Connect assistant. I help you find hospitals and manage appointments.",
			"I'm a virtual assistant for Care Connect, here to answer questions about finding care.",
			"My job is to help you navigate Care Connect: searching hospitals, booking visits and more.",
		},
	},
	{
		category: ChatCategoryJoke,
		keywords: []string{"joke", "funny", "laugh", "humor", "entertain me"},
		responses: []string{
			"Why did the doctor carry a red pen? In case they needed to draw blood.",
			"What do you call a doctor who fixes websites? A URL-ologist.",
			"Why did the cookie go to the hospital? Because it felt crummy.",
			"I told my doctor I broke my arm in two places. They told me to stop going to those places.",
		},
	},
}

var chatSuggestions = []string{
	"How do I find hospitals near me?",
	"Can you do 125 + 375?",
	"Tell me a joke",
	"What time is it?",
}

var (
	binaryExpression = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([+\-*/×÷xX])\s*(-?\d+(?:\.\d+)?)`)
	numberPattern    = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	timeQuestion     = regexp.MustCompile(`what time is it|what is the time|current time`)
	dateQuestion     = regexp.MustCompile(`what day is it|what is the date|what's the date|today's date|current date`)
	wordPattern      = regexp.MustCompile(`[a-z']+`)
)

type wordOperation struct {
	words  []string
	symbol string
}

var wordOperations = []wordOperation{
	{words: []string{"add", "sum", "plus"}, symbol: "+"},
	{words: []string{"subtract", "minus", "difference"}, symbol: "-"},
	{words: []string{"multiply", "times", "product"}, symbol: "*"},
	{words: []string{"divide", "quotient"}, symbol: "/"},
}

const chatFallback = "I'm not sure I understand. You can ask me about finding hospitals, booking appointments, insurance, or even try some math like \"125 + 375\"."

// ChatbotService answers assistant messages with rule-based replies
type ChatbotService struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewChatbotService creates a new chatbot service. rng picks between
// equivalent replies and now answers time questions.
func NewChatbotService(rng *rand.Rand, now func() time.Time) *ChatbotService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &ChatbotService{rng: rng, now: now}
}

// Suggestions returns example questions
func (s *ChatbotService) Suggestions() []string {
	return append([]string(nil), chatSuggestions...)
}

// Reply answers one message
func (s *ChatbotService) Reply(message string) (*entities.ChatReply, error) {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return nil, apperrors.NewValidationError("message is required")
	}

	if reply, ok := evaluateMath(text); ok {
		return &entities.ChatReply{Reply: reply, Category: ChatCategoryMath}, nil
	}

	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(text, -1) {
		words[w] = struct{}{}
	}
	for _, intent := range chatIntents {
		if matchesAny(text, words, intent.keywords) {
			return &entities.ChatReply{Reply: s.pick(intent.responses), Category: intent.category}, nil
		}
	}

	switch {
	case timeQuestion.MatchString(text):
		return &entities.ChatReply{Reply: "The current time is " + s.now().Format("3:04 PM") + ".", Category: ChatCategoryTime}, nil
	case dateQuestion.MatchString(text):
		return &entities.ChatReply{Reply: "Today is " + s.now().Format("Monday, January 2, 2006") + ".", Category: ChatCategoryDate}, nil
	}
	return &entities.ChatReply{Reply: chatFallback, Category: ChatCategoryFallback}, nil
}

func (s *ChatbotService) pick(responses []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return responses[s.rng.Intn(len(responses))]
}

// matchesAny matches single-word keywords against whole words and phrases
// as substrings, so "hi" does not fire on "this".
func matchesAny(text string, words map[string]struct{}, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}
		if _, ok := words[k]; ok {
			return true
		}
	}
	return false
}

func evaluateMath(text string) (string, bool) {
	if m := binaryExpression.FindStringSubmatch(text); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[3], 64)
		return mathReply(a, normalizeOperator(m[2]), b), true
	}

	numbers := numberPattern.FindAllString(text, -1)
	if len(numbers) < 2 {
		return "", false
	}
	words := wordPattern.FindAllString(text, -1)
	for _, op := range wordOperations {
		for _, w := range op.words {
			for _, candidate := range words {
				if candidate != w {
					continue
				}
				a, _ := strconv.ParseFloat(numbers[0], 64)
				b, _ := strconv.ParseFloat(numbers[1], 64)
				return mathReply(a, op.symbol, b), true
			}
		}
	}
	return "", false
}

func normalizeOperator(op string) string {
	switch op {
	case "×", "x", "X":
		return "*"
	case "÷":
		return "/"
	}
	return op
}

func mathReply(a float64, op string, b float64) string {
	var result float64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "I can't divide by zero. Try a different number."
		}
		result = a / b
	}
	expr := fmt.Sprintf("%s %s %s", formatNumber(a), op, formatNumber(b))
	return fmt.Sprintf("The result of %s is %s", expr, formatNumber(result))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
