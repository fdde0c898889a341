package notify

const orderTemplate = `<h1>New Order Received</h1>
<p>An order has been placed for the following items:</p>
<table cellpadding="8" style="border-collapse:collapse">
{{range .Lines}}<tr>
  <td><img src="{{.ImageURL}}" alt="{{.ProductName}}" width="80" /></td>
  <td><strong>{{.ProductName}}</strong>{{if .Size}}<br/>Size: {{.Size}}{{end}}</td>
  <td>Qty: {{.Quantity}}</td>
  <td>{{money .Subtotal}}</td>
</tr>
{{end}}</table>
<h2>Total: {{money .Total}}</h2>
<h3>Delivery Address</h3>
<p>{{.Address.Name}}<br/>{{.Address.Phone}}{{if .Address.Email}}<br/>{{.Address.Email}}{{end}}</p>
<p>{{.Address.Address}}{{if .Address.Pincode}} - {{.Address.Pincode}}{{end}}</p>
{{if .CheckoutID}}<p style="color:#888">Checkout {{.CheckoutID}}</p>{{end}}
`

const enquiryTemplate = `<h1>New Enquiry Received</h1>
<p>A new enquiry has been submitted through the contact form:</p>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Query:</strong></p>
<p>{{.Query}}</p>
`

const digestTemplate = `<h1>Sales for {{.Day.Format "02 Jan 2006"}}</h1>
<p><strong>Orders:</strong> {{.TotalOrders}}</p>
<p><strong>Revenue:</strong> {{money .Revenue}}</p>
{{if .TopProducts}}<h3>Top products</h3>
<ol>{{range .TopProducts}}<li>{{.Name}} ({{.Quantity}})</li>{{end}}</ol>{{end}}
{{if .RecentOrders}}<h3>Recent orders</h3>
<ul>{{range .RecentOrders}}<li>{{.ProductName}}{{if .Size}} [{{.Size}}]{{end}} x {{.Quantity}}</li>{{end}}</ul>{{end}}
`
