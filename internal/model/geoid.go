// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"cmp"
	"fmt"
)

// GeoID identifies a physical data-producing unit. It is comparable and is
// used directly as a map key.
type GeoID struct {
	SystemType string `json:"system_type"`
	Region     uint32 `json:"region"`
	Element    uint32 `json:"element"`
}

// String renders the GeoID as `systype_region_element`, the form used inside
// generated queue and endpoint names.
func (g GeoID) String() string {
	return fmt.Sprintf("%s_%d_%d", g.SystemType, g.Region, g.Element)
}

// CompareGeoID orders GeoIDs by system type, then region, then element.
func CompareGeoID(a, b GeoID) int {
	if c := cmp.Compare(a.SystemType, b.SystemType); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Region, b.Region); c != 0 {
		return c
	}
	return cmp.Compare(a.Element, b.Element)
}
