package sites

import "encoding/json"

// JSON payloads are a wire boundary: enums marshal as the upstream
// literals and parse back to canonical values.

// MarshalJSON emits the wire literal.
func (s SiteType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Wire())
}

// UnmarshalJSON parses a wire literal, keeping unknown values verbatim so
// unmapped classes survive round trips.
func (s *SiteType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if t, ok := ParseSiteType(raw); ok {
		*s = t
		return nil
	}
	*s = SiteType(raw)
	return nil
}

// MarshalJSON emits the wire literal.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// UnmarshalJSON parses a wire literal.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if l, ok := ParseRiskLevel(raw); ok {
		*r = l
		return nil
	}
	*r = RiskLevel(raw)
	return nil
}
