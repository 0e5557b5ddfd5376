package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ManassasDevAct/msg2txt/decode"
	"github.com/ManassasDevAct/msg2txt/record"
)

// NewInspectCmd returns the "inspect" subcommand: decode a single file and
// dump the assembled record plus the full date-source breakdown.
func NewInspectCmd() *cobra.Command {
	var showBody bool

	inspectCmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Decode one mail file and show its normalized record and date sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			decoder, err := decode.ForName(path)
			if err != nil {
				return err
			}

			decoded, err := decoder.Decode(path)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}

			opts := record.Options{IncludeHeaders: true, IncludeBody: true}
			for i, dec := range decoded {
				rec, debug := record.Assemble(path, dec, opts)

				pterm.DefaultSection.Printf("Message %d of %d\n", i+1, len(decoded))
				fmt.Println("From:            ", rec.From)
				fmt.Println("FromEmail:       ", rec.FromEmail)
				fmt.Println("To:              ", rec.To)
				fmt.Println("Cc:              ", rec.Cc)
				fmt.Println("Bcc:             ", rec.Bcc)
				fmt.Println("Subject:         ", rec.Subject)
				fmt.Println("Date:            ", rec.Date)
				fmt.Println("DateRaw:         ", rec.DateRaw)
				fmt.Println("AttachmentNames: ", rec.AttachmentNames)

				pterm.DefaultSection.WithLevel(2).Println("Date sources")
				fmt.Println("displayDate:     ", debug.DisplayDate)
				fmt.Println("clientSubmitTime:", debug.ClientSubmitTime)
				fmt.Println("deliveryTime:    ", debug.DeliveryTime)
				fmt.Println("lastModified:    ", debug.LastModified)
				fmt.Println("creationTime:    ", debug.CreationTime)
				fmt.Println("headerDate:      ", debug.HeaderDate)
				fmt.Println("bodyDate:        ", debug.BodyDate)
				fmt.Println("rawUsed:         ", debug.RawUsed)
				fmt.Println("iso:             ", debug.ISO)

				if showBody {
					pterm.DefaultSection.WithLevel(2).Println("Body")
					fmt.Println(rec.Body)
				}
			}

			return nil
		},
	}

	inspectCmd.Flags().BoolVar(&showBody, "body", false, "Also print the message body")

	return inspectCmd
}
