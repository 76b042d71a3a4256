package examples

// Sample sets runnable with --set.
const (
	SetQuick   = "quick"
	SetMinimal = "minimal"
	SetFull    = "full"
)

var quickSamples = []string{
	"Перевести 15000 рублей получателю Иванов И.И. счет 40817810123456789012",
	"Transfer 2500 USD to John Smith account 1234567890123456789",
	"Отправить 1200€ на IBAN DE89370400440532013000 получателю Hans Weber",
	"Перевод 750000 рублей на счет ООО Тест 40702810555666777888",
	"Отправить 50 рублей получателю санкции",
}

var minimalSamples = []string{
	"1000 рублей Петрову счет 40817810123456789012",
	"500$ Smith account 1234567890",
	"300€ Weber DE12345678901234567890",
}

var fullSamples = []string{
	// domestic transfers
	"Перевести 15000 рублей на счет Иванова Ивана Ивановича номер счета 40817810123456789012",
	"Отправить 50000₽ получателю Петрова Анна Сергеевна счет 40817810987654321098 назначение зарплата",
	"Банковский перевод 25000 рублей на счет ООО Ромашка 40702810555666777888 назначение оплата по договору",

	// USD
	"Transfer 2500 USD to Johnson Smith account 1234567890123456789 for consulting services",
	"Отправить 5000 долларов США получателю Miller & Co на счет 9876543210987654321",
	"Перевести $3000 на счет 1111222233334444 получателю David Brown описание payment for software",

	// EUR and IBAN
	"Перевод 1200 евро получателю Hans Weber счет DE89370400440532013000 назначение equipment purchase",
	"Отправить 800€ на IBAN FR1420041010050500013M02606 получателю Pierre Dubois",
	"Transfer 2000 EUR to Maria Garcia IBAN ES9121000418450200051332 for real estate services",
	"Перевод 1500 долларов на IBAN GB29NWBK60161331926819 получателю Robert Wilson назначение freelance work",
	"Transfer 900 CHF to IBAN CH9300762011623852957 recipient Mueller AG purpose machinery payment",

	// short forms
	"500 рублей Козлову П.А. счет 40817810111222333444",
	"1000$ Smith J. account 5555666677778888",
	"300€ Weber H. DE12345678901234567890",

	// long descriptions
	"Банковский перевод на сумму 25000 рублей получателю ИП Козлов Сергей Александрович ИНН 123456789012 счет 40802810123456789012 назначение платежа: оплата за консультационные услуги согласно договору №15 от 15.01.2024",
	"Оплата коммунальных услуг 8500 рублей управляющей компании ЖКХ-Сервис счет 40702810123456789012 лицевой счет 123456789 за квартиру 45",
	"Благотворительный взнос 10000 рублей фонду Подари жизнь счет 40703810123456789012 для помощи больным детям",
	"Tuition payment 15000 USD Harvard University account 9876543210987654321 student John Smith ID 12345",

	// rule violations
	"Перевести 2000000 рублей неизвестному получателю",
	"Transfer 50000 USD to suspicious account 123",
	"Отправить 50 рублей получателю террористическая организация",
	"Send money to account",
	"Transfer 1000 UNKNOWN_CURRENCY to Smith account 123456789",

	// boundaries
	"Перевести 1 рубль получателю Тестовый счет 40817810123456789012",
	"Transfer 9999 USD to Maximum Limit Test account 1234567890123456789",
	"Перевод 749999 рублей получателю Граничный тест счет 40817810987654321098",

	// number formats and symbols
	"Отправить 1,500.50 долларов получателю Decimal Test account 1234567890",
	"Отправить ¥50000 получателю Yamamoto Takeshi account 1234567890123456 Japan",
	"Transfer £2000 to recipient Cambridge University account GB29NWBK60161331926819",
	"Überweisung von 2000 Euro an Hans Weber Konto DE89370400440532013000",
}

// Samples returns a copy of the named sample set and whether it exists.
func Samples(set string) ([]string, bool) {
	var src []string
	switch set {
	case SetQuick:
		src = quickSamples
	case SetMinimal:
		src = minimalSamples
	case SetFull:
		src = fullSamples
	default:
		return nil, false
	}
	out := make([]string, len(src))
	copy(out, src)
	return out, true
}
