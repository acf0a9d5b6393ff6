package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"innospark/internal/domain"
)

// Intent is one user gesture posted by a client. The set of intents is
// closed; only this package can add members.
type Intent interface {
	Kind() string
	intent()
}

const (
	KindNavigate         = "navigate"
	KindOpenProject      = "open_project"
	KindOpenStory        = "open_story"
	KindGoBack           = "go_back"
	KindSearch           = "search"
	KindSelectCategory   = "select_category"
	KindDonate           = "donate"
	KindVolunteer        = "volunteer"
	KindDecideVolunteer  = "decide_volunteer"
	KindSetProjectStatus = "set_project_status"
	KindLogin            = "login"
	KindRegister         = "register"
	KindLogout           = "logout"
	KindUpdateRole       = "update_role"
	KindSaveBranding     = "save_branding"
	KindJoinChallenge    = "join_challenge"
	KindSubmitProject    = "submit_project"
)

type Navigate struct {
	View string `json:"view"`
}

type OpenProject struct {
	ProjectID string `json:"project_id"`
}

type OpenStory struct {
	StoryID string `json:"story_id"`
}

type GoBack struct{}

type Search struct {
	Term string `json:"term"`
}

type SelectCategory struct {
	Category string `json:"category"`
}

// Donate funds a project in whole Rupiah.
type Donate struct {
	ProjectID string `json:"project_id"`
	Amount    int64  `json:"amount"`
	Recurring bool   `json:"recurring"`
}

type Volunteer struct {
	ProjectID string `json:"project_id"`
	SkillID   string `json:"skill_id"`
	Pitch     string `json:"pitch"`
}

// DecideVolunteer approves or rejects a pending application. Admin only.
type DecideVolunteer struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

// SetProjectStatus curates a project. Admin only.
type SetProjectStatus struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Register struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Logout struct{}

type UpdateRole struct {
	Role string `json:"role"`
}

// SaveBranding replaces the session's site settings. Admin only.
type SaveBranding struct {
	PlatformName string `json:"platform_name"`
	PrimaryColor string `json:"primary_color"`
	LogoURL      string `json:"logo_url"`
}

type JoinChallenge struct {
	ChallengeID string `json:"challenge_id"`
	Proposal    string `json:"proposal"`
}

// SubmitProject sends the innovate form to the remote project store.
type SubmitProject struct {
	Title       string `json:"title"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Goal        int64  `json:"goal"`
	ImageURL    string `json:"image_url"`
}

func (Navigate) Kind() string         { return KindNavigate }
func (OpenProject) Kind() string      { return KindOpenProject }
func (OpenStory) Kind() string        { return KindOpenStory }
func (GoBack) Kind() string           { return KindGoBack }
func (Search) Kind() string           { return KindSearch }
func (SelectCategory) Kind() string   { return KindSelectCategory }
func (Donate) Kind() string           { return KindDonate }
func (Volunteer) Kind() string        { return KindVolunteer }
func (DecideVolunteer) Kind() string  { return KindDecideVolunteer }
func (SetProjectStatus) Kind() string { return KindSetProjectStatus }
func (Login) Kind() string            { return KindLogin }
func (Register) Kind() string         { return KindRegister }
func (Logout) Kind() string           { return KindLogout }
func (UpdateRole) Kind() string       { return KindUpdateRole }
func (SaveBranding) Kind() string     { return KindSaveBranding }
func (JoinChallenge) Kind() string    { return KindJoinChallenge }
func (SubmitProject) Kind() string    { return KindSubmitProject }

func (Navigate) intent()         {}
func (OpenProject) intent()      {}
func (OpenStory) intent()        {}
func (GoBack) intent()           {}
func (Search) intent()           {}
func (SelectCategory) intent()   {}
func (Donate) intent()           {}
func (Volunteer) intent()        {}
func (DecideVolunteer) intent()  {}
func (SetProjectStatus) intent() {}
func (Login) intent()            {}
func (Register) intent()         {}
func (Logout) intent()           {}
func (UpdateRole) intent()       {}
func (SaveBranding) intent()     {}
func (JoinChallenge) intent()    {}
func (SubmitProject) intent()    {}

func decodeInto[T Intent](data []byte) (Intent, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s intent: %v: %w", v.Kind(), err, domain.ErrInvalidInput)
	}
	return v, nil
}

var decoders = map[string]func([]byte) (Intent, error){
	KindNavigate:         decodeInto[Navigate],
	KindOpenProject:      decodeInto[OpenProject],
	KindOpenStory:        decodeInto[OpenStory],
	KindGoBack:           decodeInto[GoBack],
	KindSearch:           decodeInto[Search],
	KindSelectCategory:   decodeInto[SelectCategory],
	KindDonate:           decodeInto[Donate],
	KindVolunteer:        decodeInto[Volunteer],
	KindDecideVolunteer:  decodeInto[DecideVolunteer],
	KindSetProjectStatus: decodeInto[SetProjectStatus],
	KindLogin:            decodeInto[Login],
	KindRegister:         decodeInto[Register],
	KindLogout:           decodeInto[Logout],
	KindUpdateRole:       decodeInto[UpdateRole],
	KindSaveBranding:     decodeInto[SaveBranding],
	KindJoinChallenge:    decodeInto[JoinChallenge],
	KindSubmitProject:    decodeInto[SubmitProject],
}

// DecodeIntent reads a `{"type": ..., ...}` document into its intent.
func DecodeIntent(data []byte) (Intent, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("intent is not valid JSON: %w", domain.ErrInvalidInput)
	}
	kind := strings.ToLower(strings.TrimSpace(gjson.GetBytes(data, "type").String()))
	if kind == "" {
		return nil, fmt.Errorf("intent type required: %w", domain.ErrInvalidInput)
	}
	decode, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown intent type %q: %w", kind, domain.ErrInvalidInput)
	}
	return decode(data)
}
