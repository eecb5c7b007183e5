// Package xlsx renders order documents as spreadsheets.
package xlsx

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "02.01.2006"

// ErrReportRequired is returned when an act is rendered without its report.
var ErrReportRequired = errors.New("discrepancy act needs a report")

var titles = map[document.Kind]string{
	document.KindTTN:            "Товарно-транспортная накладная",
	document.KindInvoice:        "Счет на оплату",
	document.KindUPD:            "Универсальный передаточный документ",
	document.KindDiscrepancyAct: "Акт о расхождении",
}

var (
	itemHeaders = []string{"№", "Товар", "Артикул", "Кол-во", "Цена", "Сумма", "НДС, %", "НДС"}
	itemWidths  = []float64{5, 36, 14, 10, 12, 14, 8, 12}
	actHeaders  = []string{"№", "Товар", "Артикул", "Ожидалось", "Получено", "Расхождение", "Цена", "Сумма", "Причина"}
	actWidths   = []float64{5, 36, 14, 11, 11, 12, 12, 14, 30}
)

// Renderer implements ports.DocumentRenderer.
type Renderer struct{}

func NewRenderer() Renderer {
	return Renderer{}
}

func (Renderer) Render(doc *document.Document, o *order.Order, report *discrepancy.Report) ([]byte, error) {
	title, ok := titles[doc.Kind]
	if !ok {
		return nil, fmt.Errorf("no layout for document kind %q", doc.Kind)
	}
	if doc.Kind == document.KindDiscrepancyAct && report == nil {
		return nil, ErrReportRequired
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := doc.Kind.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	s, err := newSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	s.set(1, "A", fmt.Sprintf("%s № %s от %s", title, doc.Number, doc.GeneratedAt.Format(dateLayout)), s.bold)
	s.set(2, "A", "Заказ", 0)
	s.set(2, "B", o.Number(), 0)
	s.set(3, "A", "Поставщик", 0)
	s.set(3, "B", o.SupplierName(), 0)
	s.set(4, "A", "Покупатель", 0)
	s.set(4, "B", o.CustomerName(), 0)
	s.set(5, "A", "Адрес доставки", 0)
	s.set(5, "B", o.DeliveryAddress(), 0)

	if doc.Kind == document.KindDiscrepancyAct {
		s.actTable(report)
	} else {
		s.itemTable(o)
	}
	if s.err != nil {
		return nil, s.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const tableRow = 7

// sheet remembers the first write error so layout code stays linear.
type sheet struct {
	f      *excelize.File
	name   string
	bold   int
	header int
	err    error
}

func newSheet(f *excelize.File, name string) (*sheet, error) {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	return &sheet{f: f, name: name, bold: bold, header: header}, nil
}

func (s *sheet) set(row int, col string, value any, style int) {
	if s.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, row)
	if s.err = s.f.SetCellValue(s.name, cell, value); s.err != nil {
		return
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(s.name, cell, cell, style)
	}
}

func (s *sheet) columns(headers []string, widths []float64) {
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			s.err = err
			return
		}
		s.set(tableRow, col, h, s.header)
		if s.err == nil {
			s.err = s.f.SetColWidth(s.name, col, col, widths[i])
		}
	}
}

func (s *sheet) itemTable(o *order.Order) {
	s.columns(itemHeaders, itemWidths)
	row := tableRow
	for i, item := range o.Items() {
		row = tableRow + 1 + i
		s.set(row, "A", i+1, 0)
		s.set(row, "B", item.Name(), 0)
		s.set(row, "C", item.SKU(), 0)
		s.set(row, "D", item.Quantity(), 0)
		s.set(row, "E", amount(item.UnitPrice()), 0)
		s.set(row, "F", amount(item.LineTotal()), 0)
		s.set(row, "G", item.VATRate().InexactFloat64(), 0)
		s.set(row, "H", amount(item.LineVAT()), 0)
	}
	s.set(row+1, "B", "Итого", s.bold)
	s.set(row+1, "F", amount(o.TotalAmount()), s.bold)
	s.set(row+1, "H", amount(o.VATAmount()), s.bold)
}

func (s *sheet) actTable(r *discrepancy.Report) {
	s.columns(actHeaders, actWidths)
	row := tableRow
	for i, item := range r.Items() {
		row = tableRow + 1 + i
		s.set(row, "A", i+1, 0)
		s.set(row, "B", item.ProductName, 0)
		s.set(row, "C", item.ProductSKU, 0)
		s.set(row, "D", item.ExpectedQuantity, 0)
		s.set(row, "E", item.ActualQuantity, 0)
		s.set(row, "F", item.Discrepancy, 0)
		s.set(row, "G", amount(item.UnitPrice), 0)
		s.set(row, "H", amount(item.Amount), 0)
		s.set(row, "I", item.Reason, 0)
	}
	s.set(row+1, "B", "Итого", s.bold)
	s.set(row+1, "H", amount(r.TotalAmount()), s.bold)
	if r.Notes() != "" {
		s.set(row+2, "B", r.Notes(), 0)
	}
}

func amount(m kernel.Money) float64 {
	return m.Decimal().InexactFloat64()
}
