package directory

import (
	"fmt"
	"strconv"
	"strings"
)

// Report renders stats as the chat message users see.
func (s *Stats) Report() string {
	var b strings.Builder
	b.WriteString("📊 Ваша статистика использования:\n\n")
	fmt.Fprintf(&b, "🎯 Всего транскрибаций: %d\n", s.Total)
	fmt.Fprintf(&b, "⏱ Общая длительность: %.1f сек.\n", s.TotalDuration)
	fmt.Fprintf(&b, "⌛️ Среднее время: %.1f сек.\n", s.AvgDuration)

	if len(s.Recent) == 0 {
		return b.String()
	}
	b.WriteString("\n🔍 Последние транскрибации:\n")
	for _, r := range s.Recent {
		where := "личном чате"
		if !r.Private {
			name := r.ChatName
			if name == "" {
				name = strconv.FormatInt(r.ChatID, 10)
			}
			where = "группе " + name
		}
		fmt.Fprintf(&b, "- %s в %s: %.1f сек.\n", r.At.Format("2006-01-02 15:04:05"), where, r.Duration)
	}
	return b.String()
}
