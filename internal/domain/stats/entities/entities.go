package entities

import "time"

// Dimensions maps a rollup dimension to its UTM column
var Dimensions = map[string]string{
	"source":   "utm_source",
	"medium":   "utm_medium",
	"campaign": "utm_campaign",
	"content":  "utm_content",
	"term":     "utm_term",
}

// DefaultDimension is used when the query names none
const DefaultDimension = "source"

// Query selects events of one channel in [From, To]
type Query struct {
	ChannelID int64
	From      time.Time
	To        time.Time
	Dimension string
}

// VisitCount is the number of visits of one UTC day and dimension value
type VisitCount struct {
	Day    string
	Value  string
	Visits int64
}

// SubscriptionCount splits subscriptions of one UTC day and dimension value
// into attributed and organic
type SubscriptionCount struct {
	Day        string
	Value      string
	Attributed int64
	Organic    int64
}

// Bucket is the rollup of one UTC day and dimension value.
// Organic subscriptions have no campaign and land in the "" bucket.
type Bucket struct {
	Day           string  `json:"day"`
	Value         string  `json:"value"`
	Visits        int64   `json:"visits"`
	Subscriptions int64   `json:"subscriptions"`
	Organic       int64   `json:"organic"`
	Conversion    float64 `json:"conversion"`
}

// Report is the answer of a stats query
type Report struct {
	ChannelID int64     `json:"channelId"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Dimension string    `json:"dimension"`
	Buckets   []Bucket  `json:"buckets"`
	Totals    Bucket    `json:"totals"`
}
