package models

// Permission is a directed edge of the viewing graph: the viewer may read
// the viewee's reports. Self-view needs no edge.
type Permission struct {
	ID       string `json:"id"`
	ViewerID string `json:"viewerId"`
	VieweeID string `json:"vieweeId"`
}
