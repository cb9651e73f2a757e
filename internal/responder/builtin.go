// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

// TimePlaceholder is replaced with the current clock time when a template is picked.
const TimePlaceholder = "{time}"

// BuiltinTemplates returns the default reply pools.
// A fresh map is returned on every call so callers may modify it.
func BuiltinTemplates() map[Category][]string {
	return map[Category][]string{
		Greeting: {
			"こんにちは！今日はいかがお過ごしですか？",
			"こんにちは！何かお手伝いできることはありますか？",
			"お疲れ様です！何でもお聞きください。",
		},
		Question: {
			"それは興味深い質問ですね。もう少し詳しく教えていただけますか？",
			"なるほど、そのことについて考えてみますね。",
			"いい質問ですね！私なりの答えをお伝えしますね。",
		},
		Thanks: {
			"どういたしまして！他にも何かありましたらお聞きください。",
			"お役に立てて嬉しいです！",
			"いえいえ、こちらこそありがとうございます。",
		},
		Weather: {
			"今日はいい天気ですね！お出かけ日和です。",
			"天気の話題ですね。私はデジタルなので天気は分かりませんが、外の様子はいかがですか？",
			"天気について聞かれましたが、窓の外を見てみてくださいね。",
		},
		Time: {
			"現在の時刻は " + TimePlaceholder + " です。",
			"時間はあっという間に過ぎますね。",
			"今何時か気になりますよね。",
		},
		Default: {
			"そうですね、とても興味深いお話です。",
			"なるほど、そういう考え方もありますね。",
			"もう少し詳しく教えていただけますか？",
			"それについて、どう思われますか？",
			"面白いトピックですね！",
			"私もそう思います。他にはいかがですか？",
			"そのお話、もっと聞かせてください。",
			"なかなか深いテーマですね。",
		},
	}
}

// BuiltinKeywords returns the default trigger substrings per category.
func BuiltinKeywords() map[Category][]string {
	return map[Category][]string{
		Greeting: {"こんにちは", "こんばんは", "おはよう", "はじめまして", "hello", "hi"},
		Thanks:   {"ありがとう", "ありがとうございます", "サンキュー", "thanks", "thank you"},
		Weather:  {"天気", "天候", "晴れ", "雨", "曇り", "雪", "weather"},
		Time:     {"時間", "時刻", "何時", "time", "今"},
		Question: {"？", "?", "どう", "なぜ", "なに", "何", "どこ", "いつ", "だれ", "誰"},
	}
}
