package types

// KintoneError is the error document kintone sends with a non-2xx status.
type KintoneError struct {
	Code    string `json:"code,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// RecordResponse is one kintone response as seen by a record tool.
// Non-2xx statuses are reported here with OK=false rather than as tool errors.
type RecordResponse struct {
	ResponseID string        `json:"response_id"`
	App        string        `json:"app"`
	Operation  string        `json:"operation"`
	Status     int           `json:"status"`
	OK         bool          `json:"ok"`
	Body       any           `json:"body,omitempty"`
	Truncated  bool          `json:"truncated,omitempty"`
	Error      *KintoneError `json:"error,omitempty"`
	Hints      []string      `json:"hints,omitzero"`
}

// SearchRecordsResponse is the output of kintone_search_records.
// Results follow the order of the requested apps.
type SearchRecordsResponse struct {
	Query   string           `json:"query"`
	Results []RecordResponse `json:"results,omitzero"`
	Failed  []AppFailure     `json:"failed,omitzero"`
}

// AppFailure reports an app whose search never produced a response.
type AppFailure struct {
	App   string `json:"app"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// QueryResponse is the output of kintone_query_response.
type QueryResponse struct {
	ResponseID string   `json:"response_id"`
	Expression string   `json:"expression"`
	Values     []any    `json:"values,omitzero"`
	Errors     []string `json:"errors,omitzero"`
	Count      int      `json:"count"`
	Truncated  bool     `json:"truncated,omitempty"`
	Hints      []string `json:"hints,omitzero"`
}
