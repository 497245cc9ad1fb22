package ui_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/ui"
)

func TestNewPresenter_LoadsAllLocales(t *testing.T) {
	p := ui.NewPresenter("zh")
	assert.ElementsMatch(t, config.SupportedLanguages, p.SupportedLanguages)
	assert.Equal(t, "zh", p.Lang)
}

func TestNewPresenter_InvalidLanguageFallsBack(t *testing.T) {
	p := ui.NewPresenter("not a tag!")
	assert.Equal(t, config.DefaultLanguage, p.Lang)

	p = ui.NewPresenter("")
	assert.Equal(t, config.DefaultLanguage, p.Lang)
}

func TestPresenter_MissingKeyReturnsKey(t *testing.T) {
	p := ui.NewPresenter("en")
	assert.Equal(t, "no_such_key", p.Msg("no_such_key"))
}

func TestPresenter_Countdown(t *testing.T) {
	tests := []struct {
		lang   string
		offset int
		want   string
	}{
		{"zh", 3, "还有 3 天"},
		{"zh", 0, "就是今天！"},
		{"zh", -5, "已过去 5 天"},
		{"zh", engine.UnknownOffset, "日期未知"},
		{"en", 1, "in 1 day"},
		{"en", 14, "in 14 days"},
		{"en", 0, "Today!"},
		{"en", -1, "1 day ago"},
		{"en", -12, "12 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := ui.NewPresenter(tt.lang)
			assert.Equal(t, tt.want, p.Countdown(engine.Describe(tt.offset)))
		})
	}
}

func TestPresenter_DateLabel(t *testing.T) {
	zh := ui.NewPresenter("zh")
	en := ui.NewPresenter("en")

	solar := engine.Anniversary{Date: "2020-06-04", CalendarType: engine.CalendarSolar}
	lunar := engine.Anniversary{Date: "2026-10-09", CalendarType: engine.CalendarLunar}
	broken := engine.Anniversary{Date: "06/04/2020", CalendarType: engine.CalendarSolar}
	sentinel := engine.Anniversary{Date: "2026-00-00", CalendarType: engine.CalendarLunar}

	assert.Equal(t, "2020年 6月 4日", zh.DateLabel(solar))
	assert.Equal(t, "Jun 4, 2020", en.DateLabel(solar))
	assert.Equal(t, "十月初九", zh.DateLabel(lunar))
	assert.Equal(t, "十月初九", en.DateLabel(lunar), "Lunar names are traditional in every language")
	assert.Equal(t, "未知日期", zh.DateLabel(broken))
	assert.Equal(t, "Unknown date", en.DateLabel(broken))
	assert.Equal(t, "未知日期", zh.DateLabel(sentinel))
}

func TestPresenter_BadgeAndSummary(t *testing.T) {
	p := ui.NewPresenter("zh")
	assert.Equal(t, "农历", p.Badge(engine.Anniversary{CalendarType: engine.CalendarLunar}))
	assert.Equal(t, "公历", p.Badge(engine.Anniversary{CalendarType: engine.CalendarSolar}))

	assert.Equal(t, "💍 Wedding", p.Summary(engine.Anniversary{Name: "Wedding", Icon: "💍"}))
	assert.Equal(t, "Wedding", p.Summary(engine.Anniversary{Name: "Wedding"}))
}

func TestPresenter_Messages(t *testing.T) {
	en := ui.NewPresenter("en")
	assert.Equal(t, "Imported 1 anniversary", en.MsgCount(config.TKeyMsgImported, 1, map[string]any{"Count": 1}))
	assert.Equal(t, "Imported 4 anniversaries", en.MsgCount(config.TKeyMsgImported, 4, map[string]any{"Count": 4}))
	assert.Equal(t, "Added anniversary: Mum", en.MsgData(config.TKeyMsgAdded, map[string]any{"Name": "Mum"}))

	en.SetLanguage("zh")
	assert.Equal(t, "已导入 4 个纪念日", en.MsgCount(config.TKeyMsgImported, 4, map[string]any{"Count": 4}))
}

func rankedFixture() []engine.Ranked {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []engine.Anniversary{
		{ID: "p", Name: "毕业", Date: "2020-05-27", CalendarType: engine.CalendarSolar, Icon: "🎓"},
		{ID: "t", Name: "Wedding", Date: "2020-06-01", CalendarType: engine.CalendarSolar, Icon: "💍", Repeats: true},
		{ID: "f", Name: "Mum", Date: "2020-06-04", CalendarType: engine.CalendarSolar, Icon: "🎂", Repeats: true},
		{ID: "x", Name: "Broken", Date: "??", CalendarType: engine.CalendarSolar},
	}
	return engine.Rank(today, records, engine.NewAnchoredConverter())
}

func TestPresenter_Entries(t *testing.T) {
	p := ui.NewPresenter("zh")
	entries := p.Entries(rankedFixture())

	require.Len(t, entries, 4)
	assert.Equal(t, []string{"t", "f", "p", "x"}, []string{entries[0].ID, entries[1].ID, entries[2].ID, entries[3].ID})

	require.NotNil(t, entries[1].Offset)
	assert.Equal(t, 3, *entries[1].Offset)
	assert.Equal(t, "future", entries[1].Category)
	assert.Equal(t, "还有 3 天", entries[1].Countdown)
	assert.Equal(t, "2020年 6月 4日", entries[1].DateLabel)

	assert.Nil(t, entries[3].Offset)
	assert.Equal(t, "unknown", entries[3].Category)
	assert.Empty(t, p.Entries(nil))
}

func TestPresenter_RenderList(t *testing.T) {
	p := ui.NewPresenter("zh")
	var buf bytes.Buffer

	require.NoError(t, p.RenderList(&buf, rankedFixture()))
	out := buf.String()

	assert.Contains(t, out, "Wedding")
	assert.Contains(t, out, "就是今天！")
	assert.Contains(t, out, "还有 3 天")
	assert.Contains(t, out, "已过去 5 天")
	assert.Contains(t, out, "每年")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Wedding")), bytes.Index(buf.Bytes(), []byte("Mum")))
	assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestPresenter_RenderEmpty(t *testing.T) {
	p := ui.NewPresenter("zh")
	var buf bytes.Buffer

	require.NoError(t, p.RenderList(&buf, nil))
	assert.Contains(t, buf.String(), "还没有添加纪念日")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestPresenter_RenderWriteError(t *testing.T) {
	err := ui.NewPresenter("en").RenderList(failingWriter{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrRenderOutput)
}
