package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"FinCast/internal/domain/models"
	"FinCast/internal/repository"
	"FinCast/internal/services/forecasting"
	"FinCast/internal/usecase"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/metrics"
	"FinCast/pkg/util"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Forecast a CSV price table",
	Long: `Read a CSV price table (Date,Open,High,Low,Close,... header) from --file or
stdin, forecast High and Low over --horizon business days and print the tail
of the extended table together with the sMAPE of each series.`,
	Example: `  fincast run --file prices.csv --horizon 5 --model "Linear Regression"
  cat prices.csv | fincast run --file - --model XGBoost --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		horizon, _ := cmd.Flags().GetInt("horizon")
		model, _ := cmd.Flags().GetString("model")
		window, _ := cmd.Flags().GetInt("window")
		symbol, _ := cmd.Flags().GetString("symbol")
		tail, _ := cmd.Flags().GetInt("tail")
		asJSON, _ := cmd.Flags().GetBool("json")

		var frame *models.Frame
		var err error
		if file == "-" {
			frame, err = repository.ReadFrameCSV(cmd.InOrStdin())
		} else {
			frame, err = repository.ReadFrameFile(file)
		}
		if err != nil {
			return err
		}

		level, verbosity := "warn", 0
		if verbose {
			level, verbosity = "debug", 1
		}
		l := applogger.NewWithWriter(cmd.ErrOrStderr(), level)

		engine := forecasting.NewEngine(0, forecasting.WithFitLogging(l, verbosity))
		if name, ok := usecase.NewModelsUseCase(engine).Lookup(model); ok {
			model = name
		}

		uc := usecase.NewForecastUseCase(engine, metrics.New(prometheus.NewRegistry()), l, 0, 0)
		res, err := uc.Run(cmd.Context(), usecase.ForecastParams{
			Symbol:  symbol,
			Horizon: horizon,
			Model:   model,
			Window:  window,
			Data:    frame,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(models.NewForecastResponse(res, util.DateLayout))
		}
		if tail <= 0 {
			tail = horizon + 5
		}
		return printResult(out, res, tail)
	},
}

func init() {
	runCmd.Flags().StringP("file", "f", "-", "CSV file to read, - for stdin")
	runCmd.Flags().IntP("horizon", "H", 5, "forecast horizon in business days")
	runCmd.Flags().StringP("model", "m", "Linear Regression", "model name, see the models command")
	runCmd.Flags().Int("window", 0, "lag window length, 0 to derive it")
	runCmd.Flags().StringP("symbol", "s", "UNKNOWN", "symbol used in logs and output")
	runCmd.Flags().Int("tail", 0, "rows to print, default horizon+5")
	runCmd.Flags().Bool("json", false, "print the full result as JSON")
}

func printResult(out io.Writer, res *models.ForecastResult, tail int) error {
	f := res.Frame
	index := f.Index()
	cols := f.Columns()
	from := 0
	if len(index) > tail {
		from = len(index) - tail
	}

	fmt.Fprintf(out, "run %s  symbol %s  model %s  horizon %d\n", res.RunID, res.Symbol, res.Model, res.Horizon)
	fmt.Fprintf(out, "sMAPE High %.6f  Low %.6f  (%s)\n\n", res.SMAPEHigh, res.SMAPELow, res.Duration)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "Date\t")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t", c)
	}
	fmt.Fprintln(tw)

	data := make([][]float64, len(cols))
	for i, c := range cols {
		data[i], _ = f.Column(c)
	}
	for r := from; r < len(index); r++ {
		fmt.Fprintf(tw, "%s\t", index[r].Format(util.DateLayout))
		for i := range cols {
			fmt.Fprintf(tw, "%s\t", formatCell(data[i][r]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
