package team

import "errors"

var ErrNameTaken = errors.New("team name already exists")

// Team mirrors a club from the external football data provider. DataID is
// the provider's id and drives upserts during sync.
type Team struct {
	ID     int64
	Name   string
	Emblem string
	Area   string
	DataID int64
}
