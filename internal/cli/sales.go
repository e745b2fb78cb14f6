package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkroy/storefront-golang/internal/models"
	"github.com/dkroy/storefront-golang/internal/store"
)

func (c *CLI) salesMenu(ctx context.Context) {
	for {
		fmt.Fprintln(c.out, "\n== Sales Menu ==")
		fmt.Fprintln(c.out, "1) View or update product")
		fmt.Fprintln(c.out, "2) Add product")
		fmt.Fprintln(c.out, "3) Weekly sales report")
		fmt.Fprintln(c.out, "4) Top products by order and view counts")
		fmt.Fprintln(c.out, "0) Logout")

		choice, ok := c.prompt("Make a selection: ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			c.productUpdateFlow(ctx)
		case "2":
			c.productCreateFlow(ctx)
		case "3":
			c.weeklyReport(ctx)
		case "4":
			c.topProducts(ctx)
		case "0":
			return
		default:
			fmt.Fprintln(c.out, "Please make a valid selection")
		}
	}
}

func (c *CLI) productUpdateFlow(ctx context.Context) {
	pidStr, ok := c.prompt("Product ID: ")
	if !ok {
		return
	}
	pid, err := strconv.ParseInt(pidStr, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Please enter a valid product ID")
		return
	}

	p, err := c.Store.GetProduct(ctx, pid)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(c.out, "This product does not exist")
		return
	}
	if err != nil {
		fmt.Fprintf(c.out, "Lookup failed: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "\n%-6s %-20s %-10s %-10s %-8s\n", "PID", "Name", "Category", "Price", "Stock")
	fmt.Fprintln(c.out, strings.Repeat("-", 60))
	fmt.Fprintf(c.out, "%-6d %-20s %-10s $%-9.2f %-8d\n",
		p.ID, truncate(p.Name, 20), truncate(p.Category, 10), p.Price, p.StockCount)

	fmt.Fprintln(c.out, "\nUpdate: \n1) Price\n2) Stock\n3) Cancel")
	sel, ok := c.prompt("Choose: ")
	if !ok {
		return
	}
	switch sel {
	case "1":
		val, ok := c.prompt("New price: ")
		if !ok {
			return
		}
		price, err := strconv.ParseFloat(val, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid input")
			return
		}
		if err := c.Store.UpdatePrice(ctx, pid, price); err != nil {
			fmt.Fprintf(c.out, "Update failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.out, "Price has been updated")
	case "2":
		val, ok := c.prompt("New stock count: ")
		if !ok {
			return
		}
		stock, err := strconv.Atoi(val)
		if err != nil {
			fmt.Fprintln(c.out, "Stock must be a non-negative integer.")
			return
		}
		if err := c.Store.UpdateStock(ctx, pid, stock); err != nil {
			fmt.Fprintf(c.out, "Update failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.out, "Stock count has been updated")
	}
}

func (c *CLI) productCreateFlow(ctx context.Context) {
	name, ok := c.prompt("Name: ")
	if !ok {
		return
	}
	category, ok := c.prompt("Category: ")
	if !ok {
		return
	}
	priceStr, ok := c.prompt("Price: ")
	if !ok {
		return
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid input")
		return
	}
	stockStr, ok := c.prompt("Stock count: ")
	if !ok {
		return
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil {
		fmt.Fprintln(c.out, "Stock must be a non-negative integer.")
		return
	}
	description, ok := c.prompt("Description: ")
	if !ok {
		return
	}

	pid, err := c.Store.CreateProduct(ctx, &models.Product{
		Name:        name,
		Category:    category,
		Price:       price,
		StockCount:  stock,
		Description: description,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Could not create product: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Product created with PID %d\n", pid)
}

func (c *CLI) weeklyReport(ctx context.Context) {
	report, err := c.Store.WeeklySales(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Report failed: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "\nLast week's sales report")
	fmt.Fprintf(c.out, "Distinct orders: %d\n", report.Orders)
	fmt.Fprintf(c.out, "Distinct products sold: %d\n", report.ProductsSold)
	fmt.Fprintf(c.out, "Distinct customers: %d\n", report.Customers)
	fmt.Fprintf(c.out, "Average dollar spent per customer: $%.2f\n", report.AvgPerCustomer)
	fmt.Fprintf(c.out, "Total sales: $%.2f\n", report.TotalSales)
}

func (c *CLI) topProducts(ctx context.Context) {
	byOrders, err := c.Store.TopProductsByOrders(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Report failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "\n-- Top 3 products by order counts --")
	c.printProductCounts(byOrders, "Orders")

	byViews, err := c.Store.TopProductsByViews(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Report failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "\n-- Top 3 products by view counts --")
	c.printProductCounts(byViews, "Views")
}

func (c *CLI) printProductCounts(counts []store.ProductCount, label string) {
	fmt.Fprintf(c.out, "\n%-6s %-30s %-10s\n", "PID", "Name", label)
	fmt.Fprintln(c.out, strings.Repeat("-", 50))
	for _, pc := range counts {
		fmt.Fprintf(c.out, "%-6d %-30s %-10d\n", pc.ProductID, truncate(pc.Name, 30), pc.Count)
	}
}
