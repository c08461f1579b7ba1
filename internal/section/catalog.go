package section

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/protocol"
)

// TipologiaField is the single field of section 1.
const TipologiaField = "selectedTipologia"

var tipologiaOptions = []Option{
	{
		Text:        "Nuova richiesta",
		Description: "Da selezionare quando si crea una richiesta ex novo",
		Value:       "NUOVA",
	},
	{
		Text:        "Precisazione",
		Description: "Per fornire ulteriori dettagli su una richiesta già inserita",
		Value:       "PRECISAZIONE",
	},
	{
		Text:        "Variazione Dati",
		Description: "Per modificare i dati di una richiesta già validata",
		Value:       "VARIAZIONE",
	},
}

func text(key, label string, required bool) Field {
	return Field{Key: key, Label: label, Kind: KindText, Required: required}
}

func choice(key, label string, required bool, values ...string) Field {
	f := Field{Key: key, Label: label, Kind: KindChoice, Required: required}
	for _, v := range values {
		f.Options = append(f.Options, Option{Text: v, Value: v})
	}
	return f
}

var catalog = []Config{
	{
		ID:    "1",
		Title: "Tipologia richiesta",
		Fields: []Field{{
			Key:      TipologiaField,
			Label:    "Tipologia richiesta",
			Kind:     KindChoice,
			Required: true,
			Options:  tipologiaOptions,
		}},
		ValidationMessage: protocol.MsgSelectTipologia,
	},
	{
		ID:    "2",
		Title: "Programma",
		Fields: []Field{
			text("codiceProgramma", "Codice programma", true),
			text("nomeProgramma", "Nome programma", true),
			text("versioneProgramma", "Versione programma", false),
		},
	},
	{
		ID:    "3",
		Title: "Controparte",
		Fields: []Field{
			text("ragioneSociale", "Ragione sociale", true),
			text("partitaIva", "Partita IVA", true),
			text("paese", "Paese", true),
		},
	},
	{
		ID:    "4",
		Title: "Oggetto del contratto",
		Fields: []Field{
			text("descrizione", "Descrizione", true),
			choice("categoria", "Categoria", true, "BENI", "SERVIZI", "MISTO"),
		},
	},
	{
		ID:    "5",
		Title: "Valore economico",
		Fields: []Field{
			{Key: "importo", Label: "Importo", Kind: KindText, Required: true, Hint: "es. 125000,50"},
			choice("valuta", "Valuta", true, "EUR", "USD", "GBP"),
		},
		Validate: func(v map[string]string) bool {
			_, ok := parseAmount(v["importo"])
			return ok
		},
	},
	{
		ID:    "6",
		Title: "Durata",
		Fields: []Field{
			{Key: "dataInizio", Label: "Data inizio", Kind: KindText, Required: true, Hint: "AAAA-MM-GG"},
			{Key: "dataFine", Label: "Data fine", Kind: KindText, Required: true, Hint: "AAAA-MM-GG"},
		},
		Validate: func(v map[string]string) bool {
			start, err := time.Parse(time.DateOnly, strings.TrimSpace(v["dataInizio"]))
			if err != nil {
				return false
			}
			end, err := time.Parse(time.DateOnly, strings.TrimSpace(v["dataFine"]))
			if err != nil {
				return false
			}
			return !end.Before(start)
		},
	},
	{
		ID:     "7",
		Title:  "Allegati",
		Fields: []Field{text("riferimentoAllegati", "Riferimento allegati", false)},
	},
	{
		ID:    "8",
		Title: "Condizioni di pagamento",
		Fields: []Field{
			choice("modalitaPagamento", "Modalità di pagamento", true, "BONIFICO", "LETTERA_CREDITO", "ALTRO"),
			text("termini", "Termini", true),
		},
	},
	{
		ID:    "9",
		Title: "Consegna",
		Fields: []Field{
			choice("incoterms", "Incoterms", true, "EXW", "FCA", "DAP", "DDP"),
			text("luogoConsegna", "Luogo di consegna", true),
		},
	},
	{
		ID:    "10",
		Title: "Garanzie",
		Fields: []Field{
			text("tipoGaranzia", "Tipo garanzia", false),
			text("importoGaranzia", "Importo garanzia", false),
		},
		Validate: func(v map[string]string) bool {
			if strings.TrimSpace(v["importoGaranzia"]) == "" {
				return true
			}
			_, ok := parseAmount(v["importoGaranzia"])
			return ok
		},
	},
	{
		ID:     "11",
		Title:  "Note aggiuntive",
		Fields: []Field{text("note", "Note", false)},
	},
	{
		ID:    "12",
		Title: "Referente interno",
		Fields: []Field{
			text("nomeReferente", "Nome referente", true),
			text("email", "Email", true),
		},
		Validate: func(v map[string]string) bool {
			email := strings.TrimSpace(v["email"])
			at := strings.Index(email, "@")
			return at > 0 && at < len(email)-1
		},
	},
	{
		ID:     "13",
		Title:  "Riferimenti esterni",
		Fields: []Field{text("riferimentoEsterno", "Riferimento esterno", false)},
	},
	{
		ID:     "14",
		Title:  "Dichiarazioni",
		Fields: []Field{choice("dichiarazioneConformita", "Dichiarazione di conformità", true, "SI", "NO")},
	},
}

// Catalog returns the configuration of all sections in order.
func Catalog() []Config {
	out := make([]Config, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the configuration of section id.
func Lookup(id string) (Config, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Config{}, false
}

// parseAmount accepts positive amounts with either decimal separator.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}
