package views

import (
	"os"
	"path/filepath"

	"yocto-invoice/internal/models"
	"yocto-invoice/internal/services"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// businessForm holds the entries of the business details dialog
type businessForm struct {
	name      *widget.Entry
	address   *widget.Entry
	city      *widget.Entry
	province  *widget.Entry
	postCode  *widget.Entry
	country   *widget.Entry
	phone     *widget.Entry
	email     *widget.Entry
	website   *widget.Entry
	regNumber *widget.Entry

	logoPath   string
	logoButton *widget.Button
	onBrowse   func()
}

func newBusinessForm(b models.Business) *businessForm {
	f := &businessForm{
		name:      widget.NewEntry(),
		address:   widget.NewEntry(),
		city:      widget.NewEntry(),
		province:  widget.NewEntry(),
		postCode:  widget.NewEntry(),
		country:   widget.NewEntry(),
		phone:     widget.NewEntry(),
		email:     widget.NewEntry(),
		website:   widget.NewEntry(),
		regNumber: widget.NewEntry(),
	}

	f.logoButton = widget.NewButtonWithIcon("Choose…", theme.FileImageIcon(), func() {
		if f.onBrowse != nil {
			f.onBrowse()
		}
	})

	f.name.SetText(b.Name)
	f.address.SetText(b.Address)
	f.city.SetText(b.City)
	f.province.SetText(b.Province)
	f.postCode.SetText(b.PostCode)
	f.country.SetText(b.Country)
	f.phone.SetText(b.Phone)
	f.email.SetText(b.Email)
	f.website.SetText(b.Website)
	f.regNumber.SetText(b.RegNumber)

	// a logo that has since been moved or deleted is dropped
	if b.LogoPath != "" {
		if _, err := os.Stat(b.LogoPath); err == nil {
			f.setLogo(b.LogoPath)
		}
	}
	return f
}

// setLogo shows path on the logo button. Paths without a logo extension
// are ignored.
func (f *businessForm) setLogo(path string) {
	if !services.IsLogoFile(path) {
		return
	}
	f.logoPath = path
	f.logoButton.SetText(filepath.Base(path))

	if res, err := fyne.LoadResourceFromPath(path); err == nil {
		f.logoButton.SetIcon(res)
	}
}

func (f *businessForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem("Name", f.name),
		widget.NewFormItem("Address", f.address),
		widget.NewFormItem("City", f.city),
		widget.NewFormItem("Province", f.province),
		widget.NewFormItem("Post Code", f.postCode),
		widget.NewFormItem("Country", f.country),
		widget.NewFormItem("Phone", f.phone),
		widget.NewFormItem("Email", f.email),
		widget.NewFormItem("Website", f.website),
		widget.NewFormItem("Reg. Number", f.regNumber),
		widget.NewFormItem("Logo", f.logoButton),
	}
}

func (f *businessForm) collect() models.Business {
	return models.Business{
		Name:      f.name.Text,
		Address:   f.address.Text,
		City:      f.city.Text,
		Province:  f.province.Text,
		PostCode:  f.postCode.Text,
		Country:   f.country.Text,
		Phone:     f.phone.Text,
		Email:     f.email.Text,
		Website:   f.website.Text,
		RegNumber: f.regNumber.Text,
		LogoPath:  f.logoPath,
	}
}
