package agent

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"

	"github.com/Eventual-Inc/pdfagent/pkg/pdf"
)

const ParsePDFToolName = "parse_pdf_from_url"

// PDFParser is satisfied by *pdf.Parser.
type PDFParser interface {
	Parse(ctx context.Context, pdfURL string, writeImages bool) pdf.Result
}

// PDFTool exposes parser to the model as parse_pdf_from_url.
func PDFTool(parser PDFParser) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        ParsePDFToolName,
			Description: "Downloads a PDF from a URL and converts it to plain text format. Use this when the user provides a PDF link.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"pdf_url": {
						Type:        genai.TypeString,
						Description: "The complete URL of the PDF file to download and parse",
					},
					"write_images": {
						Type:        genai.TypeBoolean,
						Description: "Whether to extract and save images from the PDF (default: false)",
					},
				},
				Required: []string{"pdf_url"},
			},
		},
		Call: func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			pdfURL, _ := args["pdf_url"].(string)
			if pdfURL == "" {
				return nil, errors.New("pdf_url is required")
			}
			writeImages, _ := args["write_images"].(bool)
			result := parser.Parse(ctx, pdfURL, writeImages)
			return map[string]interface{}{
				"status":       result.Status,
				"text_content": result.TextContent,
				"message":      result.Message,
			}, nil
		},
	}
}
