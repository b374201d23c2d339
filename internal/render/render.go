// Package render turns registry state into Discord message payloads.
// Everything here is pure: no I/O and no state beyond the lookup tables.
package render

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/woozymasta/gamewatch/internal/catalog"
	"github.com/woozymasta/gamewatch/internal/models"
)

// Embed border colors.
const (
	ColorActive = 0x00ff00
	ColorEnded  = 0xff0000
)

// emptyField stands in for an empty field value, which Discord rejects.
const emptyField = "-"

var speeds = map[int]string{
	20: "Normal",
	30: "Fast",
	40: "Faster",
	50: "Fastest",
}

var markdown = regexp.MustCompile("([-\\\\*_#|~:@\\[\\]()<>`])")

// Renderer renders games with a fixed catalog and TTL.
type Renderer struct {
	catalog *catalog.Catalog
	ttl     time.Duration
}

// New returns a renderer. The ttl decides when a game is drawn as ended.
func New(c *catalog.Catalog, ttl time.Duration) *Renderer {
	return &Renderer{catalog: c, ttl: ttl}
}

// Game renders g as seen at now.
func (r *Renderer) Game(g models.Game, now time.Time) models.Message {
	color := ColorActive
	if now.Sub(g.LastSeen) >= r.ttl {
		color = ColorEnded
	}

	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = EscapeMarkdown(p)
	}

	roster := strings.Join(players, ", ")
	if roster == "" {
		roster = emptyField
	}

	fields := []models.EmbedField{
		{Name: "Players", Value: roster, Inline: true},
		{Name: "Difficulty", Value: g.Difficulty.String(), Inline: true},
		{Name: "Game Speed", Value: SpeedLabel(g.TickRate), Inline: true},
	}

	if opts := r.Options(g); len(opts) > 0 {
		fields = append(fields, models.EmbedField{
			Name:   "Game Options",
			Value:  strings.Join(opts, ", "),
			Inline: true,
		})
	}

	minutes := int(math.Round(now.Sub(g.FirstSeen).Minutes()))

	embed := models.Embed{
		Type:   "rich",
		Title:  g.ID,
		Color:  color,
		Author: &models.EmbedAuthor{Name: "DevilutionX " + g.Version},
		Footer: &models.EmbedFooter{Text: "Duration: " + FormatDuration(minutes)},
		Fields: fields,
	}

	// Discord rejects a thumbnail without URL
	if icon := r.catalog.Icon(g.Type); icon != "" {
		embed.Thumbnail = &models.EmbedImage{URL: icon}
	}

	return models.Message{Embeds: []models.Embed{embed}}
}

// Options lists the enabled game options that apply to the game type.
func (r *Renderer) Options(g models.Game) []string {
	var opts []string
	hellfireQuests := !r.catalog.HellfireQuestsExcluded(g.Type)

	if g.Flags.RunInTown {
		opts = append(opts, "Run in Town")
	}
	if g.Flags.FullQuests {
		opts = append(opts, "Quests")
	}
	if g.Flags.TheoQuest && hellfireQuests {
		opts = append(opts, "Theo Quest")
	}
	if g.Flags.CowQuest && hellfireQuests {
		opts = append(opts, "Cow Quest")
	}
	if g.Flags.FriendlyFire {
		opts = append(opts, "Friendly Fire")
	}

	return opts
}

// SpeedLabel maps a tick rate to its speed name, or "Speed: <n>" when unknown.
func SpeedLabel(tickRate int) string {
	if s, ok := speeds[tickRate]; ok {
		return s
	}
	return "Speed: " + strconv.Itoa(tickRate)
}

// FormatDuration renders whole minutes as "N minutes" or
// "N hours and M minutes". Anything below two minutes reads "1 minute".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return minutePhrase(minutes)
	}

	hours, rest := minutes/60, minutes%60

	text := strconv.Itoa(hours) + " hours"
	if hours == 1 {
		text = "1 hour"
	}
	if rest > 0 {
		text += " and " + minutePhrase(rest)
	}

	return text
}

func minutePhrase(minutes int) string {
	if minutes < 2 {
		return "1 minute"
	}
	return strconv.Itoa(minutes) + " minutes"
}

// StatusText renders the public game counter message.
func StatusText(count int) string {
	n := humanize.Comma(int64(count))
	if count == 1 {
		return "There is currently **" + n + "** public game."
	}
	return "There are currently **" + n + "** public games."
}

// StatusMessage wraps StatusText in a message payload.
func StatusMessage(count int) models.Message {
	return models.Message{Content: StatusText(count)}
}

// EscapeMarkdown escapes Discord formatting characters.
func EscapeMarkdown(text string) string {
	return markdown.ReplaceAllString(text, `\$1`)
}

// Digest fingerprints a payload so unchanged messages are not re-sent.
func Digest(msg models.Message) uint64 {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
