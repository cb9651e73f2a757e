// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Profile holds the attributes captured from the user during onboarding.
// Each field is empty until captured and written once.
type Profile struct {
	Name        string `json:"name"`
	GenderLabel string `json:"gender_label"`
}
