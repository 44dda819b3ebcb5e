package components

import (
	"yocto-invoice/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// CustomerForm collects the billing details for one document
type CustomerForm struct {
	form     *widget.Form
	name     *widget.Entry
	company  *widget.Entry
	address  *widget.Entry
	city     *widget.Entry
	province *widget.Entry
	postCode *widget.Entry
	country  *widget.Entry
	phone    *widget.Entry
	email    *widget.Entry
}

func NewCustomerForm() *CustomerForm {
	cf := &CustomerForm{
		name:     widget.NewEntry(),
		company:  widget.NewEntry(),
		address:  widget.NewEntry(),
		city:     widget.NewEntry(),
		province: widget.NewEntry(),
		postCode: widget.NewEntry(),
		country:  widget.NewEntry(),
		phone:    widget.NewEntry(),
		email:    widget.NewEntry(),
	}

	cf.form = widget.NewForm(
		widget.NewFormItem("Name", cf.name),
		widget.NewFormItem("Company", cf.company),
		widget.NewFormItem("Address", cf.address),
		widget.NewFormItem("City", cf.city),
		widget.NewFormItem("Province", cf.province),
		widget.NewFormItem("Post Code", cf.postCode),
		widget.NewFormItem("Country", cf.country),
		widget.NewFormItem("Phone", cf.phone),
		widget.NewFormItem("Email", cf.email),
	)
	return cf
}

func (cf *CustomerForm) Customer() models.Customer {
	return models.Customer{
		Name:     cf.name.Text,
		Company:  cf.company.Text,
		Address:  cf.address.Text,
		City:     cf.city.Text,
		Province: cf.province.Text,
		PostCode: cf.postCode.Text,
		Country:  cf.country.Text,
		Phone:    cf.phone.Text,
		Email:    cf.email.Text,
	}
}

func (cf *CustomerForm) SetCustomer(c models.Customer) {
	cf.name.SetText(c.Name)
	cf.company.SetText(c.Company)
	cf.address.SetText(c.Address)
	cf.city.SetText(c.City)
	cf.province.SetText(c.Province)
	cf.postCode.SetText(c.PostCode)
	cf.country.SetText(c.Country)
	cf.phone.SetText(c.Phone)
	cf.email.SetText(c.Email)
}

func (cf *CustomerForm) Clear() {
	cf.SetCustomer(models.Customer{})
}

func (cf *CustomerForm) GetContainer() fyne.CanvasObject {
	return cf.form
}
