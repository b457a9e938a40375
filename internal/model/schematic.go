package model

import "time"

// Schematic is the metadata row for one uploaded .bloxdschem file.
//
// Name is the user-facing label ("Untitled" when the upload omits it) and is NOT
// unique. StorageKey is the generated name of the blob on disk — a random UUID plus
// extension, never derived from the client-supplied filename, so uploads can neither
// collide nor smuggle path segments into the blob store.
//
// StorageKey is tagged `json:"-"`: clients address schematics by ID, the key is a
// private detail between the repository and the blob store.
type Schematic struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"-"`
	OwnerID    int64     `json:"ownerId"`
	CreatedAt  time.Time `json:"createdAt"`
}
