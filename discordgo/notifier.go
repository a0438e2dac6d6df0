// Package discordgo provides Discord API adapters using package github.com/bwmarrin/discordgo
package discordgo

import (
	"context"
	"fmt"

	"github.com/benjamonnguyen/catfocus"
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

var rarityColors = map[catfocus.Rarity]int{
	catfocus.Common:    0x9ca3af,
	catfocus.Rare:      0x3b82f6,
	catfocus.Epic:      0xa855f7,
	catfocus.Legendary: 0xf59e0b,
}

// MessageSender is the subset of *discordgo.Session used for notifications.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type notifier struct {
	cl        MessageSender
	channelID string
	l         log.Logger
}

func NewNotifier(cl MessageSender, channelID string, l log.Logger) *notifier {
	return &notifier{
		cl:        cl,
		channelID: channelID,
		l:         l,
	}
}

func (n *notifier) SessionCompleted(ctx context.Context, ev catfocus.SessionCompleted) error {
	_, err := n.cl.ChannelMessageSend(n.channelID, CompletionMessage(ev), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send completion message: %w", err)
	}
	n.l.Debug("sent completion message", "channelID", n.channelID, "type", ev.SessionType)
	return nil
}

func (n *notifier) RewardDrawn(ctx context.Context, card catfocus.OwnedCard) error {
	_, err := n.cl.ChannelMessageSendEmbed(n.channelID, CardEmbed(card), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send reward embed: %w", err)
	}
	n.l.Debug("sent reward embed", "channelID", n.channelID, "cardID", card.ID)
	return nil
}

func CompletionMessage(ev catfocus.SessionCompleted) string {
	switch ev.SessionType {
	case catfocus.FocusSession:
		return fmt.Sprintf("🍅 Focus session complete (%s). Time for a break!", ev.Duration)
	default:
		return fmt.Sprintf("☕ Break over (%s). Ready to focus?", ev.Duration)
	}
}

func CardEmbed(card catfocus.OwnedCard) *discordgo.MessageEmbed {
	attr := func(name string, v int) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{
			Name:   name,
			Value:  fmt.Sprintf("%d/%d", v, catfocus.MaxAttribute),
			Inline: true,
		}
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", card.Emoji, card.DisplayName),
		Description: fmt.Sprintf("%s\n\n*%q*", card.Description, card.Quote),
		Color:       rarityColors[card.Rarity],
		Fields: []*discordgo.MessageEmbedField{
			attr("Wisdom", card.Attributes.Wisdom),
			attr("Cuteness", card.Attributes.Cuteness),
			attr("Charm", card.Attributes.Charm),
			attr("Fluffiness", card.Attributes.Fluffiness),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s card inspired by %s", card.Rarity, card.SourcePersona),
		},
	}
}
