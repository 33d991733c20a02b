package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type TokenRequest struct {
	Secret string `json:"secret"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Session string `json:"session"`
}

type InfoModel struct {
	Version struct {
		Server   string `json:"server"`
		CmdBlock string `json:"cmdblock"`
	} `json:"version"`
}

type DispatchRequest struct {
	Line   string `json:"line"`
	Agent  string `json:"agent,omitempty"`
	Anchor []int  `json:"anchor,omitempty"`
}

type MessageModel struct {
	To    string `json:"to,omitempty"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

type DispatchResponse struct {
	Success  bool           `json:"success"`
	Messages []MessageModel `json:"messages"`
}

type AutocompleteRequest struct {
	Line string `json:"line"`
}

type OptionModel struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

type SuggestionModel struct {
	Kind    string        `json:"kind"`
	Type    string        `json:"type,omitempty"`
	Options []OptionModel `json:"options,omitempty"`
	Partial string        `json:"partial,omitempty"`
	Matches []OptionModel `json:"matches,omitempty"`
	Message string        `json:"message,omitempty"`

	// Text describes the suggestion for showing to a person.
	Text string `json:"text"`
}

type CommandModel struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
	Help  string `json:"help,omitempty"`
}

type HistoryEntryModel struct {
	ID      string `json:"id"`
	Line    string `json:"line"`
	Origin  string `json:"origin"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Time    string `json:"time"`
}

type PointModel struct {
	URI      string `json:"uri"`
	Name     string `json:"name"`
	Position []int  `json:"position"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

type PointRequest struct {
	Position []int `json:"position"`
}
