package roster

import "strings"

// ShiftCell is one day of one roster row
type ShiftCell struct {
	Code ShiftCode `json:"type"`
	Time string    `json:"time,omitempty"`
}

// OffCell is the value used for any missing or unreadable day
var OffCell = ShiftCell{Code: ShiftOff}

// NormalizeCell converts whatever the host stored for a day into a ShiftCell.
// Hosts have stored bare codes ("N") and objects ({"type": "N", "time": "..."}).
// Anything unrecognised becomes OFF.
func NormalizeCell(raw any) ShiftCell {
	switch v := raw.(type) {
	case nil:
		return OffCell
	case ShiftCell:
		if v.Code == "" {
			return ShiftCell{Code: ShiftOff, Time: v.Time}
		}
		return v
	case *ShiftCell:
		if v == nil {
			return OffCell
		}
		return NormalizeCell(*v)
	case ShiftCode:
		return NormalizeCell(string(v))
	case string:
		code := strings.TrimSpace(v)
		if code == "" {
			return OffCell
		}
		return ShiftCell{Code: ShiftCode(code)}
	case map[string]any:
		cell := OffCell
		if code, ok := v["type"].(string); ok && strings.TrimSpace(code) != "" {
			cell.Code = ShiftCode(strings.TrimSpace(code))
		}
		if t, ok := v["time"].(string); ok {
			cell.Time = t
		}
		return cell
	case map[string]string:
		cell := OffCell
		if code := strings.TrimSpace(v["type"]); code != "" {
			cell.Code = ShiftCode(code)
		}
		cell.Time = v["time"]
		return cell
	default:
		return OffCell
	}
}
