package swc

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NoParent is the parent-id sentinel marking a sample with no parent.
const NoParent = -1

// SampleType represents the morphological type of a sample. The constants
// mirror the SWC type codes 0..7.
type SampleType int

const (
	TypeUndefined SampleType = iota
	TypeSoma
	TypeAxon
	TypeBasalDendrite
	TypeApicalDendrite
	TypeForkPoint
	TypeEndPoint
	TypeCustom
)

func (t SampleType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeSoma:
		return "soma"
	case TypeAxon:
		return "axon"
	case TypeBasalDendrite:
		return "basal-dendrite"
	case TypeApicalDendrite:
		return "apical-dendrite"
	case TypeForkPoint:
		return "fork-point"
	case TypeEndPoint:
		return "end-point"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Code returns the SWC type code for the sample type.
func (t SampleType) Code() int { return int(t) }

// normalizeTypeCode maps a raw SWC type code to a SampleType. Codes outside
// 1..4 are folded into TypeBasalDendrite, except a code of 0 on a sample with
// no parent, which stays TypeUndefined (it is a structural anchor, not a
// drawable segment). The second return reports whether a fallback applied.
func normalizeTypeCode(code, parentID int) (SampleType, bool) {
	switch code {
	case 1:
		return TypeSoma, false
	case 2:
		return TypeAxon, false
	case 3:
		return TypeBasalDendrite, false
	case 4:
		return TypeApicalDendrite, false
	case 0:
		if parentID == NoParent {
			return TypeUndefined, false
		}
		return TypeBasalDendrite, true
	default:
		return TypeBasalDendrite, true
	}
}

// Sample is a single point along a neuronal skeleton. Samples are immutable
// once parsed and are identified by ID, unique within a file.
type Sample struct {
	ID       int
	Type     SampleType
	Position v3.Vec
	Radius   float64
	ParentID int
}

// RawPoint is the format-agnostic input record used by loaders that already
// hold structured point data (for example an HDF5 morphology reader). It
// carries the raw SWC-convention type code, not a normalized SampleType.
type RawPoint struct {
	ID       int
	Type     int
	X        float64
	Y        float64
	Z        float64
	Radius   float64
	ParentID int
}

// Format identifies the physical layout a sample table was loaded from.
type Format string

const (
	FormatSWC    Format = "swc"
	FormatPoints Format = "points"
)

// Diagnostic captures a non-fatal finding raised while parsing or
// reconstructing a morphology. Hard errors abort the pipeline; diagnostics
// are collected onto the successful result for the caller to log or ignore.
type Diagnostic struct {
	Stage    string `json:"stage"`
	Severity string `json:"severity"` // warning | info
	Sample   int    `json:"sample,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}
