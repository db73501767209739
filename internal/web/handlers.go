package web

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
)

type messageData struct {
	layoutData
	Heading string
	Message string
}

type homeData struct {
	layoutData
	Featured []domain.Product
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type productsData struct {
	layoutData
	Products    []domain.Product
	SortOptions []sortOption
}

type productData struct {
	layoutData
	Product domain.Product
	Related []domain.Product
	Added   bool
}

type cartData struct {
	layoutData
	Cart domain.Cart
}

type checkoutData struct {
	layoutData
	Cart   domain.Cart
	Form   checkout.Form
	Errors map[string]string
}

type confirmationData struct {
	layoutData
	Order domain.Order
}

// maxLineQuantity bounds what a shopper can put on one line through the
// site.
const maxLineQuantity = 9999

var sortOptions = []sortOption{
	{Value: "", Label: "Featured"},
	{Value: "price-asc", Label: "Price: Low to High"},
	{Value: "price-desc", Label: "Price: High to Low"},
	{Value: "rating", Label: "Top Rated"},
	{Value: "title", Label: "Name"},
}

func layoutFor(r *http.Request) layoutData {
	return layoutData{ItemCount: cart.FromContext(r.Context()).ItemCount()}
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	featured, err := s.catalog.ListProducts(r.Context(), featuredCount)
	if err != nil {
		s.logger.WarnContext(r.Context(), "list featured products", "error", err)
	}

	s.pages.render(w, r, http.StatusOK, pageHome, homeData{
		layoutData: layoutFor(r),
		Featured:   featured,
	})
}

func (s *server) products(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), 0)
	if err != nil {
		s.logger.WarnContext(r.Context(), "list products", "error", err)
	}

	sortBy := r.URL.Query().Get("sort")
	sortProducts(products, sortBy)

	options := make([]sortOption, len(sortOptions))
	for i, o := range sortOptions {
		o.Selected = o.Value == sortBy
		options[i] = o
	}

	s.pages.render(w, r, http.StatusOK, pageProducts, productsData{
		layoutData:  layoutFor(r),
		Products:    products,
		SortOptions: options,
	})
}

func (s *server) product(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		s.productNotFound(w, r)
		return
	}

	product, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			s.logger.WarnContext(r.Context(), "get product", "product_id", id, "error", err)
		}
		s.productNotFound(w, r)
		return
	}

	related, err := catalog.RelatedProducts(r.Context(), s.catalog, product)
	if err != nil {
		s.logger.WarnContext(r.Context(), "related products", "product_id", id, "error", err)
	}

	s.pages.render(w, r, http.StatusOK, pageProduct, productData{
		layoutData: layoutFor(r),
		Product:    product,
		Related:    related,
		Added:      r.URL.Query().Get("added") == "1",
	})
}

func (s *server) productNotFound(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, r, http.StatusNotFound, pageMessage, messageData{
		layoutData: layoutFor(r),
		Heading:    "Product not found",
		Message:    "We couldn't find the product you were looking for.",
	})
}

func (s *server) cartPage(w http.ResponseWriter, r *http.Request) {
	store := cart.FromContext(r.Context())

	s.pages.render(w, r, http.StatusOK, pageCart, cartData{
		layoutData: layoutFor(r),
		Cart:       store.Cart(),
	})
}

func (s *server) addItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil || id <= 0 {
		s.badRequest(w, r, "The product id is not valid.")
		return
	}

	product, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			s.logger.WarnContext(r.Context(), "get product", "product_id", id, "error", err)
		}
		s.productNotFound(w, r)
		return
	}

	store := cart.FromContext(r.Context())
	c := store.Cart()
	if i := c.Find(id); i < 0 || c.Items[i].Quantity < maxLineQuantity {
		store.AddToCart(r.Context(), product)
	}

	http.Redirect(w, r, localRedirect(r.PostFormValue("redirect"), "/cart"), http.StatusSeeOther)
}

func (s *server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		s.badRequest(w, r, "The product id is not valid.")
		return
	}

	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		s.badRequest(w, r, "The quantity is not valid.")
		return
	}

	cart.FromContext(r.Context()).UpdateQuantity(r.Context(), id, min(quantity, maxLineQuantity))

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *server) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		s.badRequest(w, r, "The product id is not valid.")
		return
	}

	cart.FromContext(r.Context()).RemoveFromCart(r.Context(), id)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *server) clearCart(w http.ResponseWriter, r *http.Request) {
	cart.FromContext(r.Context()).ClearCart(r.Context())

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *server) checkoutPage(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, r, http.StatusOK, pageCheckout, checkoutData{
		layoutData: layoutFor(r),
		Cart:       cart.FromContext(r.Context()).Cart(),
	})
}

func (s *server) placeOrder(w http.ResponseWriter, r *http.Request) {
	store := cart.FromContext(r.Context())

	form := checkout.Form{
		Email:      r.PostFormValue("email"),
		Name:       r.PostFormValue("name"),
		Address:    r.PostFormValue("address"),
		CardNumber: r.PostFormValue("card-number"),
	}

	order, err := s.checkout.PlaceOrder(r.Context(), store, form)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		case errors.As(err, &verr):
			form.CardNumber = ""
			s.pages.render(w, r, http.StatusUnprocessableEntity, pageCheckout, checkoutData{
				layoutData: layoutFor(r),
				Cart:       store.Cart(),
				Form:       form,
				Errors:     verr.Fields,
			})
		default:
			s.logger.ErrorContext(r.Context(), "place order", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	s.pages.render(w, r, http.StatusOK, pageConfirmation, confirmationData{
		layoutData: layoutFor(r),
		Order:      order,
	})
}

func (s *server) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	s.pages.render(w, r, http.StatusBadRequest, pageMessage, messageData{
		layoutData: layoutFor(r),
		Heading:    "Bad request",
		Message:    message,
	})
}

func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// localRedirect returns target when it is a path on this site, fallback
// otherwise. Browsers drop tabs and newlines from Location, so any control
// character is rejected before the path checks.
func localRedirect(target, fallback string) string {
	for _, c := range target {
		if c < 0x20 || c == 0x7f {
			return fallback
		}
	}
	if strings.Contains(target, "\\") {
		return fallback
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return fallback
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}

	return target
}

func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case "price-asc":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Amount.Cmp(b.Price.Amount)
		})
	case "price-desc":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.Price.Amount.Cmp(a.Price.Amount)
		})
	case "rating":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			switch {
			case a.Rating.Rate > b.Rating.Rate:
				return -1
			case a.Rating.Rate < b.Rating.Rate:
				return 1
			}
			return 0
		})
	case "title":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
}
