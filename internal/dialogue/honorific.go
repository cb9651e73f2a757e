// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialogue

import (
	"sort"
	"strings"
)

// DefaultHonorific is the suffix used for every gender label unless configured otherwise.
const DefaultHonorific = "さん"

// Honorifics maps a captured gender label to the suffix used in the
// acknowledgment reply. Labels are matched after trimming, case-insensitively.
type Honorifics struct {
	Default string
	ByLabel map[string]string
}

// DefaultHonorifics returns the stock table. Every known label resolves to
// the same suffix.
func DefaultHonorifics() Honorifics {
	return Honorifics{
		Default: DefaultHonorific,
		ByLabel: map[string]string{
			"男性":  DefaultHonorific,
			"女性":  DefaultHonorific,
			"その他": DefaultHonorific,
		},
	}
}

// Suffix returns the honorific for label. An exact key wins over a
// case-insensitive one; among case-insensitive matches the smallest key wins.
func (h Honorifics) Suffix(label string) string {
	trimmed := strings.TrimSpace(label)
	if suffix, ok := h.ByLabel[trimmed]; ok {
		return suffix
	}

	keys := make([]string, 0, len(h.ByLabel))
	for l := range h.ByLabel {
		keys = append(keys, l)
	}
	sort.Strings(keys)
	for _, l := range keys {
		if strings.EqualFold(strings.TrimSpace(l), trimmed) {
			return h.ByLabel[l]
		}
	}

	if h.Default != "" {
		return h.Default
	}
	return DefaultHonorific
}
