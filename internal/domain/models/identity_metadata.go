package models

import "time"

// JSONMap is an identity metadata bag, stored as JSONB by the postgres backend
// and as app_metadata by Supabase.
type JSONMap map[string]interface{}

// Approved reads the approval flag. Only a boolean true counts.
func (m JSONMap) Approved() bool {
	approved, ok := m[MetadataKeyApproved].(bool)
	return ok && approved
}

// AccessRequest reads the access request fields. A malformed timestamp is
// dropped rather than reported.
func (m JSONMap) AccessRequest() *AccessRequest {
	req := &AccessRequest{}
	if requested, ok := m[MetadataKeyAccessRequested].(bool); ok {
		req.Requested = requested
	}
	if raw, ok := m[MetadataKeyAccessRequestedAt].(string); ok && raw != "" {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			req.RequestedAt = &at
		}
	}
	return req
}

// AccessRequestPatch returns the keys written by a request-access call.
func AccessRequestPatch(requested bool, at time.Time) JSONMap {
	return JSONMap{
		MetadataKeyAccessRequested:   requested,
		MetadataKeyAccessRequestedAt: at.UTC().Format(time.RFC3339Nano),
	}
}

// Merge copies patch into a new map built from m. Keys absent from patch are kept.
func (m JSONMap) Merge(patch JSONMap) JSONMap {
	merged := make(JSONMap, len(m)+len(patch))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
