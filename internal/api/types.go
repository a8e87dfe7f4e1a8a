package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guregu/null/v5"
)

// MonitorType selects how the backend probes a target.
type MonitorType int

const (
	MonitorTypePing MonitorType = 0
	MonitorTypeHTTP MonitorType = 1
)

func (t MonitorType) String() string {
	switch t {
	case MonitorTypePing:
		return "ping"
	case MonitorTypeHTTP:
		return "http"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseMonitorType accepts "ping", "http" or "https" (case-insensitive).
func ParseMonitorType(s string) (MonitorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ping":
		return MonitorTypePing, nil
	case "http", "https":
		return MonitorTypeHTTP, nil
	}
	return 0, fmt.Errorf("unknown monitor type %q (use ping or http)", s)
}

// SearchMode controls how ExpectedText is matched against an HTTP response.
type SearchMode int

const (
	SearchIncludes SearchMode = 0
	SearchExcludes SearchMode = 1
)

func (m SearchMode) String() string {
	switch m {
	case SearchIncludes:
		return "includes"
	case SearchExcludes:
		return "excludes"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseSearchMode accepts "includes" or "excludes".
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "includes", "include":
		return SearchIncludes, nil
	case "excludes", "exclude":
		return SearchExcludes, nil
	}
	return 0, fmt.Errorf("unknown search mode %q (use includes or excludes)", s)
}

// Percentage is a backend-formatted uptime figure such as "99.95". It is
// displayed as-is; numeric JSON values are kept in their literal form.
type Percentage string

func (p *Percentage) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Percentage(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("percentage must be a string or number: %w", err)
	}
	*p = Percentage(n.String())
	return nil
}

// Monitor is one monitored endpoint as listed by the backend.
type Monitor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Target       string `json:"target"`
	CreatedAtUTC Time   `json:"createdAtUtc"`
	IsActive     bool   `json:"isActive"`

	// IsUp is null until the backend has a verdict.
	IsUp    null.Bool   `json:"isUp"`
	GroupID null.String `json:"groupId"`

	Uptime24hPercentage Percentage `json:"uptime24hPercentage"`
	Uptime30dPercentage Percentage `json:"uptime30dPercentage"`

	// LastEvents holds up to lastEventsLimit events, most recent first.
	LastEvents []Event `json:"lastEvents,omitempty"`
}

// MonitorDetail is the full record returned by GET /monitor/{id}.
type MonitorDetail struct {
	Monitor

	Type                  MonitorType `json:"type"`
	IntervalInMinutes     int         `json:"intervalInMinutes"`
	TimeoutInMilliseconds int         `json:"tiemoutInMilliseconds"`
	AlertEmails           []string    `json:"alertEmails"`
	RequestHeaders        []string    `json:"requestHeaders"`
	SearchMode            SearchMode  `json:"searchMode"`
	ExpectedText          null.String `json:"expectedText"`
	AlertMessage          null.String `json:"alertMessage"`
	AlertDelayMinutes     int         `json:"alertDelayMinutes"`
	AlertResendCycles     int         `json:"alertResendCycles"`

	LastImportantEvents []Event `json:"lastImportantEvents,omitempty"`
}

// Event is one recorded probe outcome.
type Event struct {
	ID                  string  `json:"id"`
	TimestampUTC        Time    `json:"timestampUtc"`
	IsUp                bool    `json:"isUp"`
	Message             string  `json:"message"`
	LatencyMilliseconds float64 `json:"latencyMilliseconds"`
	FalsePositive       bool    `json:"falsePositive"`
	Category            string  `json:"category"`
	Note                string  `json:"note"`
	TicketID            string  `json:"ticketId"`
	MaintenanceType     string  `json:"maintenanceType"`
	MonitorID           string  `json:"monitorId"`
	MonitorName         string  `json:"monitorName"`
}

// Group is a named collection of monitors.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MonitorPayload is the body of POST /monitor.
type MonitorPayload struct {
	Name                  string      `json:"name" validate:"required"`
	Description           string      `json:"description"`
	Type                  MonitorType `json:"type" validate:"oneof=0 1"`
	Target                string      `json:"target" validate:"required"`
	IntervalInMinutes     int         `json:"intervalInMinutes" validate:"gte=1"`
	TimeoutInMilliseconds int         `json:"tiemoutInMilliseconds" validate:"gte=100"`
	AlertEmails           []string    `json:"alertEmails" validate:"dive,email"`
	GroupID               null.String `json:"groupId"`
	RequestHeaders        []string    `json:"requestHeaders"`
	SearchMode            SearchMode  `json:"searchMode" validate:"oneof=0 1"`
	ExpectedText          null.String `json:"expectedText"`
	AlertMessage          null.String `json:"alertMessage"`
	AlertDelayMinutes     int         `json:"alertDelayMinutes" validate:"gte=0"`
	AlertResendCycles     int         `json:"alertResendCycles" validate:"gte=0"`
}

// NewMonitorPayload returns a payload with the form defaults: an HTTP monitor
// checked every minute with a one second timeout.
func NewMonitorPayload(name, target string) MonitorPayload {
	return MonitorPayload{
		Name:                  name,
		Type:                  MonitorTypeHTTP,
		Target:                target,
		IntervalInMinutes:     1,
		TimeoutInMilliseconds: 1000,
		AlertEmails:           []string{},
		RequestHeaders:        []string{},
		SearchMode:            SearchIncludes,
	}
}

// PayloadFromDetail seeds an edit form from an existing monitor.
func PayloadFromDetail(d MonitorDetail) MonitorPayload {
	p := MonitorPayload{
		Name:                  d.Name,
		Description:           d.Description,
		Type:                  d.Type,
		Target:                d.Target,
		IntervalInMinutes:     d.IntervalInMinutes,
		TimeoutInMilliseconds: d.TimeoutInMilliseconds,
		AlertEmails:           append([]string{}, d.AlertEmails...),
		GroupID:               d.GroupID,
		RequestHeaders:        append([]string{}, d.RequestHeaders...),
		SearchMode:            d.SearchMode,
		ExpectedText:          d.ExpectedText,
		AlertMessage:          d.AlertMessage,
		AlertDelayMinutes:     d.AlertDelayMinutes,
		AlertResendCycles:     d.AlertResendCycles,
	}
	if p.IntervalInMinutes == 0 {
		p.IntervalInMinutes = 1
	}
	if p.TimeoutInMilliseconds == 0 {
		p.TimeoutInMilliseconds = 1000
	}
	return p
}

// MonitorPatch is the body of PATCH /monitor/{id}. Nil fields are left
// unchanged by the backend. A non-nil empty slice clears a list and a set
// null.String without a value clears the field, so both are sent.
type MonitorPatch struct {
	Name                  *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Description           *string      `json:"description,omitempty"`
	Type                  *MonitorType `json:"type,omitempty" validate:"omitempty,oneof=0 1"`
	Target                *string      `json:"target,omitempty" validate:"omitempty,min=1"`
	IntervalInMinutes     *int         `json:"intervalInMinutes,omitempty" validate:"omitempty,gte=1"`
	TimeoutInMilliseconds *int         `json:"tiemoutInMilliseconds,omitempty" validate:"omitempty,gte=100"`
	AlertEmails           []string     `json:"alertEmails,omitempty" validate:"omitempty,dive,email"`
	GroupID               *null.String `json:"groupId,omitempty"`
	RequestHeaders        []string     `json:"requestHeaders,omitempty"`
	SearchMode            *SearchMode  `json:"searchMode,omitempty" validate:"omitempty,oneof=0 1"`
	ExpectedText          *null.String `json:"expectedText,omitempty"`
	AlertMessage          *null.String `json:"alertMessage,omitempty"`
	AlertDelayMinutes     *int         `json:"alertDelayMinutes,omitempty" validate:"omitempty,gte=0"`
	AlertResendCycles     *int         `json:"alertResendCycles,omitempty" validate:"omitempty,gte=0"`
}

// MarshalJSON sends set-but-empty lists as [] instead of dropping them.
func (p MonitorPatch) MarshalJSON() ([]byte, error) {
	type plain MonitorPatch
	body := struct {
		plain
		AlertEmails    *[]string `json:"alertEmails,omitempty"`
		RequestHeaders *[]string `json:"requestHeaders,omitempty"`
	}{plain: plain(p)}
	if p.AlertEmails != nil {
		body.AlertEmails = &p.AlertEmails
	}
	if p.RequestHeaders != nil {
		body.RequestHeaders = &p.RequestHeaders
	}
	return json.Marshal(body)
}

// PatchFromPayload converts a full payload into a patch touching every field,
// matching how the edit form submits. Empty optional fields become clears.
func PatchFromPayload(p MonitorPayload) MonitorPatch {
	return MonitorPatch{
		Name:                  &p.Name,
		Description:           &p.Description,
		Type:                  &p.Type,
		Target:                &p.Target,
		IntervalInMinutes:     &p.IntervalInMinutes,
		TimeoutInMilliseconds: &p.TimeoutInMilliseconds,
		AlertEmails:           append([]string{}, p.AlertEmails...),
		GroupID:               &p.GroupID,
		RequestHeaders:        append([]string{}, p.RequestHeaders...),
		SearchMode:            &p.SearchMode,
		ExpectedText:          &p.ExpectedText,
		AlertMessage:          &p.AlertMessage,
		AlertDelayMinutes:     &p.AlertDelayMinutes,
		AlertResendCycles:     &p.AlertResendCycles,
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p MonitorPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Type == nil && p.Target == nil &&
		p.IntervalInMinutes == nil && p.TimeoutInMilliseconds == nil && p.AlertEmails == nil &&
		p.GroupID == nil && p.RequestHeaders == nil && p.SearchMode == nil &&
		p.ExpectedText == nil && p.AlertMessage == nil && p.AlertDelayMinutes == nil &&
		p.AlertResendCycles == nil
}

// EventPatch is the body of PATCH /event/{id}. Only these annotation fields
// are editable; nil fields are left unchanged.
type EventPatch struct {
	Note            *string `json:"note,omitempty"`
	Category        *string `json:"category,omitempty"`
	TicketID        *string `json:"ticketId,omitempty"`
	MaintenanceType *string `json:"maintenanceType,omitempty"`
	FalsePositive   *bool   `json:"falsePositive,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Note == nil && p.Category == nil && p.TicketID == nil &&
		p.MaintenanceType == nil && p.FalsePositive == nil
}
