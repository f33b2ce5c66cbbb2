package api

// ---------------------------------------------------------------------------
// Stats submission  POST /stats
// ---------------------------------------------------------------------------

// PopularCommand is one entry of the popular-commands list. Count is a
// decimal string on the wire.
type PopularCommand struct {
	Name  string `json:"name"`
	Count string `json:"count"`
}

// StatsPayload is the body of a stats submission, without the access key.
// All numeric values are decimal strings as the API requires.
type StatsPayload struct {
	ID        string           `json:"id"`
	Servers   string           `json:"servers"`
	Users     string           `json:"users"`
	Active    []string         `json:"active"`
	Commands  string           `json:"commands"`
	Popular   []PopularCommand `json:"popular"`
	MemActive string           `json:"memactive"`
	MemLoad   string           `json:"memload"`
	CPULoad   string           `json:"cpuload"`
	Bandwidth string           `json:"bandwidth"`
	Custom1   string           `json:"custom1"`
	Custom2   string           `json:"custom2"`
}

// statsRequest is the wire form of a submission: the payload with the
// access key merged in as a body field.
type statsRequest struct {
	StatsPayload
	Key string `json:"key"`
}

// ---------------------------------------------------------------------------
// Historical stats  GET /{bot_id}
// ---------------------------------------------------------------------------

// BotStats is one historical stats record returned by the API.
type BotStats struct {
	Time      int64            `json:"time"`
	Servers   string           `json:"servers"`
	Users     string           `json:"users"`
	Active    []string         `json:"active"`
	Commands  string           `json:"commands"`
	Popular   []PopularCommand `json:"popular"`
	MemActive string           `json:"memactive"`
	MemLoad   string           `json:"memload"`
	CPULoad   string           `json:"cpuload"`
	Bandwidth string           `json:"bandwidth"`
	Custom1   string           `json:"custom1"`
	Custom2   string           `json:"custom2"`
	Count     int64            `json:"count"`
	Votes     int64            `json:"votes"`
}

// BotStatsResponse is the envelope of GET /{bot_id}.
type BotStatsResponse struct {
	Data []BotStats `json:"data"`
}
