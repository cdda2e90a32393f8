// ABOUTME: Stats summarizes how much the vault holds
// ABOUTME: Counts are taken inside one transaction so they agree with each other
package models

// Stats holds record counts per collection
type Stats struct {
	Conversations int `json:"conversations"`
	Messages      int `json:"messages"`
	Nuggets       int `json:"nuggets"`
	Tags          int `json:"tags"`
}
