package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/lotbook"
	"github.com/etnz/lotbook/renderer"
	"google.golang.org/genai"
)

// Model is the Gemini model used by the experts.
const Model = "gemini-2.5-pro"

// NewAccountant creates the expert in charge of the user's lots. Its tools
// read positions through t.
func NewAccountant(t *lotbook.Tracker) *Expert {
	lib := []Function{listSymbols(t), position(t), holdings(t), history(t)}

	return &Expert{
		Name:      "Accountant",
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's trading lots.
				Every buy and sell is recorded as a lot, positions are computed with the ` + t.Method.String() + ` cost basis method
				and amounts are in ` + t.Currency + `.

				Use the available tools to get information about the user's positions
				  - list of traded symbols
				  - position of a symbol: quantity, average cost, realized and unrealized gains
				  - holdings: all open positions and their totals
				  - history of a symbol, lot by lot

				Never guess a figure, always compute it with the tools. Answer in markdown.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

var portfolioParam = &genai.Schema{
	Type:        genai.TypeString,
	Description: "The portfolio to restrict to. Empty means all portfolios.",
}

var symbolParam = &genai.Schema{
	Type:        genai.TypeString,
	Description: "The symbol, as recorded in the lots (e.g. AAPL.US). Use list_symbols to find them.",
}

func listSymbols(t *lotbook.Tracker) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "list_symbols",
			Description: "list_symbols lists every symbol with at least one recorded lot, open or closed.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"portfolio": portfolioParam},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A comma separated list of symbols.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			portfolio, err := stringArg(args, "portfolio", false)
			if err != nil {
				return "", err
			}
			symbols, err := t.Store.Symbols(ctx, portfolio)
			if err != nil {
				return "", err
			}
			if len(symbols) == 0 {
				return "no lot recorded", nil
			}
			return strings.Join(symbols, ", "), nil
		},
	}
}

func position(t *lotbook.Tracker) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "position",
			Description: "position computes the position of a symbol at its latest price: open quantity, average cost, realized and unrealized gains.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol":    symbolParam,
					"portfolio": portfolioParam,
				},
				Required: []string{"symbol"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the position, with warnings about inconsistent lots.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			symbol, err := stringArg(args, "symbol", true)
			if err != nil {
				return "", err
			}
			portfolio, err := stringArg(args, "portfolio", false)
			if err != nil {
				return "", err
			}
			h, err := t.Position(ctx, symbol, portfolio)
			if err != nil {
				return "", err
			}
			return renderer.PositionMarkdown(h, t.Currency), nil
		},
	}
}

func holdings(t *lotbook.Tracker) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "holdings",
			Description: "holdings computes every open position and their totals.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{"portfolio": portfolioParam},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the open positions.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			portfolio, err := stringArg(args, "portfolio", false)
			if err != nil {
				return "", err
			}
			hs, err := t.Holdings(ctx, portfolio, false)
			if err != nil {
				return "", err
			}
			return renderer.HoldingsMarkdown(hs, t.Currency), nil
		},
	}
}

func history(t *lotbook.Tracker) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "history",
			Description: "history replays the lots of a symbol in order and shows the position after each of them.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol":    symbolParam,
					"portfolio": portfolioParam,
				},
				Required: []string{"symbol"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table, one row per lot.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			symbol, err := stringArg(args, "symbol", true)
			if err != nil {
				return "", err
			}
			portfolio, err := stringArg(args, "portfolio", false)
			if err != nil {
				return "", err
			}
			lots, err := t.Store.Lots(ctx, lotbook.Filter{Symbol: symbol, Portfolio: portfolio})
			if err != nil {
				return "", err
			}
			return renderer.HistoryMarkdown(symbol, lotbook.History(lots, t.Method), t.Currency), nil
		},
	}
}

func stringArg(args map[string]any, name string, required bool) (string, error) {
	v, ok := args[name]
	if !ok {
		if required {
			return "", fmt.Errorf("argument %q is required", name)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		return "", fmt.Errorf("argument %q is required", name)
	}
	return s, nil
}
