// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dialogue tracks the onboarding phase of a conversation and decides,
// per message, whether to capture a profile field or hand the text to the
// response selector.
//
// The phases run AwaitingName, AwaitingGender, Open. Each message advances
// the phase by one step and Open loops on itself:
//
//	m := dialogue.New(responder.New(nil, rng))
//	m.HandleTurn("太郎") // 太郎さん、はじめまして！性別を教えていただけますか？...
//	m.HandleTurn("男性") // 太郎さん、ありがとうございます！...
//	m.HandleTurn("こんにちは")
//
// A Machine is not safe for concurrent use.
package dialogue
