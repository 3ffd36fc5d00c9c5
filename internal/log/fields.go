// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID     = "session_id"
	FieldCorrelationID = "correlation_id"
	FieldRenderID      = "render_id"
	FieldBatchID       = "batch_id"
	FieldTimerID       = "timer_id"
	FieldMetaID        = "meta_id"
	FieldServiceRef    = "service_ref"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldHandle    = "handle"

	// Media / stream fields
	FieldCodec      = "codec"
	FieldResolution = "resolution"
	FieldFPS        = "fps"
	FieldEncoder    = "encoder"
	FieldDevice     = "device"

	// Timeline fields
	FieldCameraID      = "camera_id"
	FieldSegmentIndex  = "segment_index"
	FieldBatchIndex    = "batch_index"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Path / URL fields
	FieldPath      = "path"
	FieldFinalPath = "final_path"
)
