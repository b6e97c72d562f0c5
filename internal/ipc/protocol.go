package ipc

// Commands understood by a running session.
const (
	CommandStatus = "status"
	CommandSay    = "say"
	CommandPick   = "pick"
	CommandInsert = "insert"
	CommandSelect = "select"
	CommandCancel = "cancel"
	CommandExport = "export"
	CommandLoad   = "load"
	CommandStop   = "stop"
)

// Request is one newline-terminated JSON command.
type Request struct {
	Command string `json:"command"`
	// Text carries words for say and the product name for pick.
	Text string `json:"text,omitempty"`
	// Row is the 1-based row for select.
	Row int `json:"row,omitempty"`
	// Rows replaces the document for load.
	Rows []Row `json:"rows,omitempty"`
}

// Reply reports how one word was handled.
type Reply struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Outcome string `json:"outcome"`
}

// Row is the wire form of one document row.
type Row struct {
	Kind string   `json:"kind"`
	Cols []string `json:"cols"`
}

type Response struct {
	OK         bool     `json:"ok"`
	Session    string   `json:"session,omitempty"`
	Mode       string   `json:"mode,omitempty"`
	ActiveRow  int      `json:"active_row,omitempty"`
	Message    string   `json:"message,omitempty"`
	Replies    []Reply  `json:"replies,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Rows       []Row    `json:"rows,omitempty"`
	Path       string   `json:"path,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Failure builds an error response.
func Failure(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
