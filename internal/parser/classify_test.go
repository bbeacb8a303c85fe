package parser

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected LineClass
	}{
		{"transaction with balance", "01 Sep 25 EBAY PAYOUT 123.45 7,890.12", ClassTransaction},
		{"transaction single amount", "02 Sep 25 NOVUNA DD 50.00", ClassTransaction},
		{"balance brought forward", "BALANCE BROUGHT FORWARD 7,766.67", ClassBalanceHeader},
		{"balance carried forward punctuated", "balance carried forward.  7,840.12", ClassBalanceHeader},
		{"phone number only", "Call 03457 404 404", ClassNoise},
		{"opening hours footer", "Opening hours: Mon-Fri 9am to 5pm", ClassNoise},
		{"guidance footer", "If you have a query, please contact us on 0800 169 1234", ClassNoise},
		{"website footer", "Find out more at www.hsbc.co.uk", ClassNoise},
		{"no date prefix", "CARD PAYMENT TESCO 25.99", ClassNoise},
		{"date but no amount", "01 Sep 25 PAYMENT PENDING", ClassNoise},
		{"empty", "", ClassNoise},
		{"blank", "   ", ClassNoise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.expected {
				t.Errorf("Classify(%q): got %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestClassifyBalanceHeaderNeverTransaction(t *testing.T) {
	// A balance header carries an amount and could look like a
	// transaction line; it must still classify as a header.
	line := "01 Sep 25 BALANCE BROUGHT FORWARD 7,766.67"
	if got := Classify(line); got != ClassBalanceHeader {
		t.Errorf("got %v, want %v", got, ClassBalanceHeader)
	}
}
