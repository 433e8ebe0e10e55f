package replies

// Package replies holds the bot's user-visible copy. Defaults match the
// production bot; individual strings can be overridden from a YAML file.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Copy struct {
	Usage          string `yaml:"usage"`
	PaidPrompt     string `yaml:"paid_prompt"`
	Last5Prompt    string `yaml:"last5_prompt"`
	CardAltText    string `yaml:"card_alt_text"`
	CardTitle      string `yaml:"card_title"`
	CardCaution    string `yaml:"card_caution"`
	CardDisclaimer string `yaml:"card_disclaimer"`
	PaidLabel      string `yaml:"paid_label"`
	Last5Label     string `yaml:"last5_label"`
}

// Defaults returns the built-in copy.
func Defaults() Copy {
	return Copy{
		Usage:          "我看不太懂格式～請用：\n遊戲名 + 空格 + 面額*數量（可多組）\n例：逆水寒 2500*10 170*5 240*1",
		PaidPrompt:     "收到～請回覆帳號末五碼（5位數字），例如：12345",
		Last5Prompt:    "請直接輸入 5 位數字末五碼（例如：12345）",
		CardAltText:    "付款確認",
		CardTitle:      "🧾 付款確認",
		CardCaution:    "請確認金額無誤後再匯款",
		CardDisclaimer: "⚠️ 未收到款項前不會進行儲值",
		PaidLabel:      "💰 我已付款",
		Last5Label:     "🔢 回傳帳號末五碼",
	}
}

// Parse overlays YAML content on top of the defaults; empty fields in the
// file keep their default values.
func Parse(content []byte) (Copy, error) {
	c := Defaults()
	if err := yaml.Unmarshal(content, &c); err != nil {
		return Copy{}, fmt.Errorf("failed to parse reply copy YAML: %w", err)
	}
	return c, nil
}

// Load reads copy overrides from path. An empty path returns the defaults.
func Load(path string) (Copy, error) {
	if path == "" {
		return Defaults(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Copy{}, fmt.Errorf("failed to read reply copy file: %w", err)
	}
	return Parse(content)
}
