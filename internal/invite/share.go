package invite

import (
	"net/url"
	"strings"
)

// Channel is where an invite is shared.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelWeb      Channel = "web"
)

// Channels lists every channel with a dedicated deep link.
var Channels = []Channel{ChannelTelegram, ChannelWhatsApp, ChannelSMS, ChannelWeb}

// Message is the fixed invitation text.
const Message = "Join my group buy! The more friends join, the less we all pay."

// Linker builds invite URLs under a public base URL.
type Linker struct {
	baseURL string
}

// NewLinker returns a Linker for a base URL such as https://bahamm.example.
func NewLinker(baseURL string) *Linker {
	return &Linker{baseURL: strings.TrimRight(baseURL, "/")}
}

// InviteURL is the web page that resolves a token.
func (l *Linker) InviteURL(token string) string {
	return l.baseURL + "/invite/" + url.PathEscape(token)
}

// BuildShareURL returns a channel specific deep link carrying the invitation
// message and the invite URL. Unknown channels get the plain invite URL.
func (l *Linker) BuildShareURL(token string, channel Channel) string {
	link := l.InviteURL(token)
	text := Message + "\n" + link

	switch channel {
	case ChannelTelegram:
		return "tg://msg_url?" + url.Values{"url": {link}, "text": {Message}}.Encode()
	case ChannelWhatsApp:
		return "whatsapp://send?" + url.Values{"text": {text}}.Encode()
	case ChannelSMS:
		return "sms:?" + url.Values{"body": {text}}.Encode()
	case ChannelWeb:
		return "https://t.me/share/url?" + url.Values{"url": {link}, "text": {Message}}.Encode()
	}
	return link
}

// ShareURLs builds the link for every known channel.
func (l *Linker) ShareURLs(token string) map[Channel]string {
	urls := make(map[Channel]string, len(Channels))
	for _, c := range Channels {
		urls[c] = l.BuildShareURL(token, c)
	}
	return urls
}
