// Command inspect lists the messages a running puppet service knows about.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"puppet-lab/domain"
	"puppet-lab/facade"
	"puppet-lab/puppet/service"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	address := flag.String("address", "localhost:8080", "puppet service address")
	room := flag.String("room", "", "only messages of this room")
	talker := flag.String("talker", "", "only messages sent by this contact")
	to := flag.String("to", "", "only direct messages sent to this contact")
	text := flag.String("text", "", "only messages with exactly this text")
	kind := flag.String("type", "", "only messages of this type (Text, Image, ...)")
	timeout := flag.Duration("timeout", 10*time.Second, "overall timeout")
	level := flag.String("log", "WARN", "log level")
	flag.Parse()

	query := domain.MessageQuery{RoomID: *room, TalkerID: *talker, ToID: *to, Text: *text}
	if *kind != "" {
		t, ok := domain.ParseMessageType(*kind)
		if !ok {
			log.Fatalf("Unknown message type %q", *kind)
		}
		query.Type = &t
	}

	conn, err := grpc.NewClient(*address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", *address, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := service.NewPuppetClient(conn)
	name, err := client.RemoteName(ctx)
	if err != nil {
		log.Fatalf("Puppet service unreachable: %v", err)
	}
	accessory := facade.NewAccessory(client, logs.GetLoggerFromString(*level))
	messages, err := accessory.FindAllMessages(ctx, query)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	rows := make([][]string, 0, len(messages))
	for _, message := range messages {
		h, err := message.Ready(ctx)
		if err != nil {
			rows = append(rows, []string{message.ID(), "-", "-", "-", "-", color.Red.Render(err.Error())})
			continue
		}
		rows = append(rows, row(h))
	}

	header := fmt.Sprintf("  ====== %s puppet at %s : %d messages ======", name, *address, len(messages))
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Date", "From", "Conversation", "Type", "Content"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()
}

func row(h *facade.Hydrated) []string {
	conversation := lo.TernaryF(h.Room() != nil,
		func() string { return h.Room().String() },
		func() string { return h.To().String() },
	)
	from := h.From().String()
	if h.Self() {
		from = color.Cyan.Render(from)
	}
	date := "--:--:--"
	if !h.Date().IsZero() {
		date = h.Date().Local().Format(time.DateTime)
	}
	mentioned := lo.Map(h.Mentioned(), func(c *domain.Contact, _ int) string { return c.DisplayName() })
	content := h.Content()
	if len(mentioned) > 0 {
		content = fmt.Sprintf("%s (mentions %v)", content, mentioned)
	}
	return []string{h.ID(), date, from, conversation, h.Type().String(), content}
}
