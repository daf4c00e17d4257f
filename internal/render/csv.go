package render

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/guttosm/investhelper/internal/domain/models"
)

// utf8BOM lets spreadsheet software detect the encoding.
const utf8BOM = "\ufeff"

// csvHeader is written on its own for an empty series.
const csvHeader = "Date,Open,High,Low,Close,Adj Close,Volume,Return,CumReturn,Downside\n"

type csvRow struct {
	Date      string  `csv:"Date"`
	Open      float64 `csv:"Open"`
	High      float64 `csv:"High"`
	Low       float64 `csv:"Low"`
	Close     float64 `csv:"Close"`
	AdjClose  float64 `csv:"Adj Close"`
	Volume    int64   `csv:"Volume"`
	Return    float64 `csv:"Return"`
	CumReturn float64 `csv:"CumReturn"`
	Downside  float64 `csv:"Downside"`
}

// WriteCSV writes series as a BOM-prefixed, comma separated table: the
// session columns of each bar followed by the derived ones. Session values
// are 0 when the provider only supplied the adjusted close.
func WriteCSV(w io.Writer, series models.ReturnSeries) error {
	rows := make([]*csvRow, 0, len(series))
	for _, p := range series {
		rows = append(rows, &csvRow{
			Date:      p.Date.Format(dateLayout),
			Open:      p.Open,
			High:      p.High,
			Low:       p.Low,
			Close:     p.Close,
			AdjClose:  p.AdjClose,
			Volume:    p.Volume,
			Return:    p.SimpleReturn,
			CumReturn: p.CumulativeReturn,
			Downside:  p.Downside,
		})
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	if len(rows) == 0 {
		_, err := io.WriteString(w, csvHeader)
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	return nil
}

// CSVFilename is the download name used for a ticker's export.
func CSVFilename(ticker string) string {
	return ticker + "_data.csv"
}
