package query

import (
	"fmt"
	"net/url"
	"strconv"
)

// Resource names a family of cache entries that are invalidated together.
type Resource string

const (
	ResourceMonitors Resource = "monitors"
	ResourceMonitor  Resource = "monitor"
	ResourceEvents   Resource = "events"
	ResourceGroups   Resource = "groups"
)

// Key identifies one cached query. Params is a canonical url.Values encoding
// of the query's filters, so equal filters always produce equal keys.
type Key struct {
	Resource Resource
	Page     int
	Size     int
	Params   string
}

// NewKey builds a key; params are encoded in sorted order.
func NewKey(resource Resource, page, size int, params url.Values) Key {
	return Key{Resource: resource, Page: page, Size: size, Params: params.Encode()}
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%d|%s", k.Resource, k.Page, k.Size, k.Params)
}

// MonitorsKey is the key for a page of the monitor list.
func MonitorsKey(page, size, lastEventsLimit int) Key {
	return NewKey(ResourceMonitors, page, size, url.Values{"lastEventsLimit": {strconv.Itoa(lastEventsLimit)}})
}

// MonitorKey is the key for one monitor's detail.
func MonitorKey(id string, lastEventsLimit int) Key {
	return NewKey(ResourceMonitor, 0, 0, url.Values{
		"id":              {id},
		"lastEventsLimit": {strconv.Itoa(lastEventsLimit)},
	})
}

// EventsKey is the key for a page of events, optionally filtered by monitor.
func EventsKey(page, size int, monitorID string) Key {
	params := url.Values{}
	if monitorID != "" {
		params.Set("monitorId", monitorID)
	}
	return NewKey(ResourceEvents, page, size, params)
}

// GroupsKey is the key for a page of groups.
func GroupsKey(page, size int) Key {
	return NewKey(ResourceGroups, page, size, nil)
}
