package docgen

import "time"

// Party is one natural person appearing in a document: a contracting
// party, visitor, seller or buyer. Qualification fields feed the party
// enumeration paragraph; only the name and CPF are mandatory everywhere.
type Party struct {
	Name          string `json:"nome" validate:"required"`
	Nationality   string `json:"nacionalidade"`
	MaritalStatus string `json:"estado_civil"`
	Profession    string `json:"profissao"`
	RG            string `json:"rg"`
	CPF           string `json:"cpf" validate:"required"`
	Address       string `json:"endereco"`
	Phone         string `json:"telefone"`
	Email         string `json:"email"`
	// Spouse, when present, is enumerated as a bold sub-clause after the
	// party's own qualification.
	Spouse *Party `json:"conjuge"`
}

// Broker is a licensed intermediary.
type Broker struct {
	Name  string `json:"nome" validate:"required"`
	CRECI string `json:"creci" validate:"required"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// Witness signs the closing section of contracts.
type Witness struct {
	Name string `json:"nome" validate:"required"`
	RG   string `json:"rg"`
	CPF  string `json:"cpf" validate:"required"`
}

// Agency describes how the transaction is represented. A nil Agency on a
// payload means the party came unrepresented; Name may be empty for a
// represented party whose agency is not named.
type Agency struct {
	Name string `json:"nome"`
	CNPJ string `json:"cnpj"`
}

// Encumbrance is a registered charge on the property. Present means the
// extended clause is generated; nil elides it entirely.
type Encumbrance struct {
	Kind            string `json:"tipo" validate:"required"`
	Beneficiary     string `json:"credor" validate:"required"`
	BeneficiaryCNPJ string `json:"credor_cnpj"`
	Registration    string `json:"registro"`
}

// Payment is one row of the payment schedule.
type Payment struct {
	Number  int       `json:"numero"`
	DueDate time.Time `json:"vencimento" validate:"required"`
	Amount  float64   `json:"valor" validate:"gt=0"`
	Method  string    `json:"forma"`
}

// CommissionShare is one broker's slice of the commission, as a
// percentage of the whole.
type CommissionShare struct {
	BrokerName string  `json:"corretor" validate:"required"`
	Percent    float64 `json:"percentual" validate:"gt=0,lte=100"`
}
