package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models sent to and received
// from the client.

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
}

type AccountModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
}

type AccountCreateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// CompileRequest is the body of a request to submit a program for compiling.
// AST holds the bytes produced by internal/astcodec.Encode; encoding/json
// marshals/unmarshals a []byte field as base64, so the client sends the
// encoded AST base64-wrapped in the ast property and it arrives here already
// decoded back to astcodec's own JSON encoding, ready to hand to
// astcodec.Decode as-is.
type CompileRequest struct {
	AST                   []byte `json:"ast"`
	SMTMode               bool   `json:"smt_mode,omitempty"`
	CheckOnly             bool   `json:"check_only,omitempty"`
	EmptyGeneratorIsFatal bool   `json:"empty_generator_is_fatal,omitempty"`
}

type CompileJobModel struct {
	URI         string `json:"uri"`
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Status      string `json:"status"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
	Output      string `json:"output,omitempty"`
	Table       string `json:"table,omitempty"`
	Diagnostics string `json:"diagnostics,omitempty"`
	JobError    string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Touist string `json:"touist"`
	} `json:"version"`
}
