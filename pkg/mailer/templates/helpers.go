package templates

// Option pattern
type Option func(*EmailData)

func WithCreated(date string) Option { return func(d *EmailData) { d.Created = date } }
func WithPhoneCount(n int) Option    { return func(d *EmailData) { d.PhoneCount = n } }

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(companyName, appName, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		CompanyName:    companyName,
		AppName:        appName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(companyName, appName, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(companyName, appName, Welcome, name, email, opts...))
}
