// Package assistant answers citizen help-desk questions about municipal
// services. Provider failures never surface to the user: the reply degrades
// to a canned, topic-matched response.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/models"
	"github.com/siddhesh434/jansunwai-indore/internal/triage"
)

const municipalKnowledge = `
JANSUNWAI MUNICIPAL SERVICES GUIDE

DEPARTMENTS:
1. Water & Sanitation: Water supply issues, drainage problems, sewage blockages
2. Road & Transportation: Potholes, traffic signals, street lighting, road repairs
3. Waste Management: Garbage collection, recycling, waste disposal complaints
4. Building & Planning: Construction permits, zoning issues, illegal constructions
5. Health & Hygiene: Food safety, public health issues, hospital complaints
6. Public Works: Parks maintenance, public facilities, infrastructure
7. Revenue: Property tax, municipal bills, tax assessments
8. Electricity: Power outages, meter issues, electrical safety

COMPLAINT PROCESS:
1. Identify the right department for your issue
2. Provide clear title and detailed description
3. Include location, date, and relevant details
4. Attach photos if helpful
5. Track your complaint status
6. Follow up through the thread system

ESCALATION PROCESS:
If no response within 7 days, complaints auto-escalate to senior officials.
Emergency issues (water contamination, electrical hazards) get priority.
`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SuggestedQuery is a complaint draft the model embedded in its reply.
type SuggestedQuery struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Department   string `json:"department"`
	DepartmentID string `json:"department_id,omitempty"`
}

type Reply struct {
	Response       string          `json:"response"`
	SuggestedQuery *SuggestedQuery `json:"suggested_query"`
	Fallback       bool            `json:"fallback,omitempty"`
}

type Assistant struct {
	Provider llm.Provider
	CacheTTL time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	reply Reply
	exp   time.Time
}

func New(p llm.Provider) *Assistant {
	return &Assistant{
		Provider: p,
		CacheTTL: 60 * time.Second,
		cache:    map[string]cacheEntry{},
	}
}

var suggestedQueryRe = regexp.MustCompile(`(?i)SUGGESTED_QUERY:\s*\{([^}]+)\}`)
var bareKeyRe = regexp.MustCompile(`(\w+):`)

// Ask answers a user message. Any provider error degrades to the canned
// fallback with a 200-equivalent reply, preserving the appearance of
// availability.
func (a *Assistant) Ask(ctx context.Context, message string, history []Message, departments []models.Department) Reply {
	if cached, ok := a.cacheGet(message); ok {
		return cached
	}

	names := make([]string, 0, len(departments))
	for _, d := range departments {
		names = append(names, d.Name)
	}
	deptList := strings.Join(names, ", ")
	if deptList == "" {
		deptList = "Water & Sanitation, Road & Transportation, Waste Management, Building & Planning, Health & Hygiene, Public Works, Revenue, Electricity"
	}

	system := fmt.Sprintf(`You are a helpful AI assistant for JanSunwai, a municipal complaint system.

Your role:
- Help users understand municipal services
- Guide them to the right department
- Draft complaint titles and descriptions
- Provide information about processes
- Be concise, helpful, and actionable

Available departments: %s

Knowledge Base:
%s

If you suggest creating a complaint, format your response to include:
SUGGESTED_QUERY: {title: "complaint title", description: "detailed description", department: "department name"}

Always be helpful, professional, and focused on municipal services.`, deptList, municipalKnowledge)

	prompt := message
	if len(history) > 0 {
		var b strings.Builder
		for _, h := range history {
			fmt.Fprintf(&b, "%s: %s\n", h.Role, h.Content)
		}
		b.WriteString("user: " + message)
		prompt = b.String()
	}

	text, err := a.Provider.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return Reply{Response: FallbackResponse(message), Fallback: true}
	}

	suggested := extractSuggestedQuery(text, departments)
	clean := strings.TrimSpace(suggestedQueryRe.ReplaceAllString(text, ""))
	reply := Reply{Response: clean, SuggestedQuery: suggested}
	a.cacheSet(message, reply)
	return reply
}

func extractSuggestedQuery(text string, departments []models.Department) *SuggestedQuery {
	m := suggestedQueryRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	// Models often emit unquoted keys in the suggested block.
	raw := "{" + bareKeyRe.ReplaceAllString(m[1], `"$1":`) + "}"
	var sq SuggestedQuery
	if err := json.Unmarshal([]byte(raw), &sq); err != nil {
		return nil
	}
	if sq.Title == "" {
		return nil
	}
	if dept, ok := triage.ResolveDepartment(departments, sq.Department); ok {
		sq.DepartmentID = dept.ID
		sq.Department = dept.Name
	}
	return &sq
}

func (a *Assistant) cacheGet(key string) (Reply, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.cache[key]; ok {
		if time.Now().Before(e.exp) {
			return e.reply, true
		}
		delete(a.cache, key)
	}
	return Reply{}, false
}

func (a *Assistant) cacheSet(key string, reply Reply) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[key] = cacheEntry{reply: reply, exp: time.Now().Add(a.CacheTTL)}
}
