package gcal

import "encoding/json"

// Calendar represents a calendar resource.
type Calendar struct {
	Kind                 string          `json:"kind,omitempty"`
	Etag                 string          `json:"etag,omitempty"`
	ID                   string          `json:"id,omitempty"`
	Summary              string          `json:"summary,omitempty"`
	Description          string          `json:"description,omitempty"`
	Location             string          `json:"location,omitempty"`
	TimeZone             string          `json:"timeZone,omitempty"`
	ConferenceProperties json.RawMessage `json:"conferenceProperties,omitempty"`
}

// CalendarListEntry represents a calendar as it appears on the user's
// calendar list, including view-specific fields like colors and access role.
type CalendarListEntry struct {
	Kind                 string           `json:"kind,omitempty"`
	Etag                 string           `json:"etag,omitempty"`
	ID                   string           `json:"id,omitempty"`
	Summary              string           `json:"summary,omitempty"`
	SummaryOverride      string           `json:"summaryOverride,omitempty"`
	Description          string           `json:"description,omitempty"`
	Location             string           `json:"location,omitempty"`
	TimeZone             string           `json:"timeZone,omitempty"`
	ColorID              string           `json:"colorId,omitempty"`
	BackgroundColor      string           `json:"backgroundColor,omitempty"`
	ForegroundColor      string           `json:"foregroundColor,omitempty"`
	AccessRole           string           `json:"accessRole,omitempty"`
	Primary              bool             `json:"primary,omitempty"`
	Selected             bool             `json:"selected,omitempty"`
	Hidden               bool             `json:"hidden,omitempty"`
	Deleted              bool             `json:"deleted,omitempty"`
	DefaultReminders     []*EventReminder `json:"defaultReminders,omitempty"`
	NotificationSettings json.RawMessage  `json:"notificationSettings,omitempty"`
}

// CalendarList is a page of the user's calendar list.
type CalendarList struct {
	Kind          string               `json:"kind,omitempty"`
	Etag          string               `json:"etag,omitempty"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
	NextSyncToken string               `json:"nextSyncToken,omitempty"`
	Items         []*CalendarListEntry `json:"items,omitempty"`
}

// EventDateTime is an event boundary. Exactly one of Date (all-day events)
// or DateTime is set by the service; the client does not interpret which.
type EventDateTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// EventAttendee represents an attendee of an event.
type EventAttendee struct {
	ID               string `json:"id,omitempty"`
	Email            string `json:"email,omitempty"`
	DisplayName      string `json:"displayName,omitempty"`
	Organizer        bool   `json:"organizer,omitempty"`
	Self             bool   `json:"self,omitempty"`
	Resource         bool   `json:"resource,omitempty"`
	Optional         bool   `json:"optional,omitempty"`
	ResponseStatus   string `json:"responseStatus,omitempty"`
	Comment          string `json:"comment,omitempty"`
	AdditionalGuests int64  `json:"additionalGuests,omitempty"`
}

// EventPerson is the creator or organizer of an event.
type EventPerson struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Self        bool   `json:"self,omitempty"`
}

// EventReminder is a single reminder override.
type EventReminder struct {
	Method  string `json:"method,omitempty"`
	Minutes int64  `json:"minutes,omitempty"`
}

// EventReminders holds the reminder settings of an event.
type EventReminders struct {
	UseDefault bool             `json:"useDefault"`
	Overrides  []*EventReminder `json:"overrides,omitempty"`
}

// Event represents an event resource. Loosely-typed payloads the client never
// inspects (conference data, gadget metadata, extended properties, source,
// attachments) are carried as raw JSON blobs.
type Event struct {
	Kind                    string           `json:"kind,omitempty"`
	Etag                    string           `json:"etag,omitempty"`
	ID                      string           `json:"id,omitempty"`
	Status                  string           `json:"status,omitempty"`
	HTMLLink                string           `json:"htmlLink,omitempty"`
	Created                 string           `json:"created,omitempty"`
	Updated                 string           `json:"updated,omitempty"`
	Summary                 string           `json:"summary,omitempty"`
	Description             string           `json:"description,omitempty"`
	Location                string           `json:"location,omitempty"`
	ColorID                 string           `json:"colorId,omitempty"`
	Creator                 *EventPerson     `json:"creator,omitempty"`
	Organizer               *EventPerson     `json:"organizer,omitempty"`
	Start                   *EventDateTime   `json:"start,omitempty"`
	End                     *EventDateTime   `json:"end,omitempty"`
	EndTimeUnspecified      bool             `json:"endTimeUnspecified,omitempty"`
	Recurrence              []string         `json:"recurrence,omitempty"`
	RecurringEventID        string           `json:"recurringEventId,omitempty"`
	OriginalStartTime       *EventDateTime   `json:"originalStartTime,omitempty"`
	Transparency            string           `json:"transparency,omitempty"`
	Visibility              string           `json:"visibility,omitempty"`
	ICalUID                 string           `json:"iCalUID,omitempty"`
	Sequence                int64            `json:"sequence,omitempty"`
	Attendees               []*EventAttendee `json:"attendees,omitempty"`
	AttendeesOmitted        bool             `json:"attendeesOmitted,omitempty"`
	HangoutLink             string           `json:"hangoutLink,omitempty"`
	EventType               string           `json:"eventType,omitempty"`
	GuestsCanInviteOthers   *bool            `json:"guestsCanInviteOthers,omitempty"`
	GuestsCanModify         bool             `json:"guestsCanModify,omitempty"`
	GuestsCanSeeOtherGuests *bool            `json:"guestsCanSeeOtherGuests,omitempty"`
	Reminders               *EventReminders  `json:"reminders,omitempty"`
	ExtendedProperties      json.RawMessage  `json:"extendedProperties,omitempty"`
	ConferenceData          json.RawMessage  `json:"conferenceData,omitempty"`
	Gadget                  json.RawMessage  `json:"gadget,omitempty"`
	Source                  json.RawMessage  `json:"source,omitempty"`
	Attachments             json.RawMessage  `json:"attachments,omitempty"`
}

// Events is a page of events from a single calendar.
type Events struct {
	Kind             string           `json:"kind,omitempty"`
	Etag             string           `json:"etag,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Description      string           `json:"description,omitempty"`
	Updated          string           `json:"updated,omitempty"`
	TimeZone         string           `json:"timeZone,omitempty"`
	AccessRole       string           `json:"accessRole,omitempty"`
	DefaultReminders []*EventReminder `json:"defaultReminders,omitempty"`
	NextPageToken    string           `json:"nextPageToken,omitempty"`
	NextSyncToken    string           `json:"nextSyncToken,omitempty"`
	Items            []*Event         `json:"items,omitempty"`
}

// ListEventsOptions are the caller-driven filters for ListEvents. Zero values
// are omitted from the request so the service applies its own defaults;
// pointer fields distinguish "unset" from an explicit false/zero.
type ListEventsOptions struct {
	TimeMin      string
	TimeMax      string
	Query        string
	MaxResults   *int64
	PageToken    string
	SingleEvents *bool
	OrderBy      string
}

// FreeBusyRequestItem identifies one calendar in a free/busy query.
type FreeBusyRequestItem struct {
	ID string `json:"id"`
}

// FreeBusyRequest is the body of a free/busy query.
type FreeBusyRequest struct {
	TimeMin              string                 `json:"timeMin"`
	TimeMax              string                 `json:"timeMax"`
	TimeZone             string                 `json:"timeZone,omitempty"`
	GroupExpansionMax    int64                  `json:"groupExpansionMax,omitempty"`
	CalendarExpansionMax int64                  `json:"calendarExpansionMax,omitempty"`
	Items                []*FreeBusyRequestItem `json:"items"`
}

// TimePeriod is a busy interval.
type TimePeriod struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// FreeBusyError describes a per-calendar lookup failure in a free/busy
// response.
type FreeBusyError struct {
	Domain string `json:"domain,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// FreeBusyCalendar holds the busy intervals and errors for one calendar.
type FreeBusyCalendar struct {
	Busy   []*TimePeriod    `json:"busy,omitempty"`
	Errors []*FreeBusyError `json:"errors,omitempty"`
}

// FreeBusyResponse is the result of a free/busy query.
type FreeBusyResponse struct {
	Kind      string                      `json:"kind,omitempty"`
	TimeMin   string                      `json:"timeMin,omitempty"`
	TimeMax   string                      `json:"timeMax,omitempty"`
	Groups    json.RawMessage             `json:"groups,omitempty"`
	Calendars map[string]FreeBusyCalendar `json:"calendars,omitempty"`
}

// ColorDefinition is a single palette entry.
type ColorDefinition struct {
	Background string `json:"background,omitempty"`
	Foreground string `json:"foreground,omitempty"`
}

// Colors is the static color palette for calendars and events.
type Colors struct {
	Kind     string                     `json:"kind,omitempty"`
	Updated  string                     `json:"updated,omitempty"`
	Calendar map[string]ColorDefinition `json:"calendar,omitempty"`
	Event    map[string]ColorDefinition `json:"event,omitempty"`
}
