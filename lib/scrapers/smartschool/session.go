package smartschool

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"smartschool-api/lib/restyutil"
	"smartschool-api/lib/telemetry"
	"strconv"
	"sync/atomic"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/smartschool")

// an authenticated session against one smartschool instance. the
// portal routes every agenda XHR through a single dispatcher that
// takes a command envelope as form data.
type Client struct {
	BaseUrl *url.URL
	http    *resty.Client
}

type ClientOptions struct {
	// e.g. https://myschool.smartschool.be
	BaseUrl string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/smartschool/http")

	return &Client{
		BaseUrl: baseUrl,
		http:    client,
	}, nil
}

// dumps every raw exchange through `out`, only wire this up when
// debugging a scrape session locally
func (c *Client) SetInstrumentOutput(out restyutil.FilesystemOutput) {
	var idcounter uint64
	c.http.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		out.Write(id, restyutil.FormatHttpMessage(res))
		return nil
	})
}

func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get("/login")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return err
	}
	token := doc.Find(`input[name="login_form[_token]"]`).AttrOr("value", "")
	if token == "" {
		span.SetStatus(codes.Error, "failed to find login token")
		return fmt.Errorf("%w: could not find login token", LoginFailed)
	}

	values := url.Values{
		"login_form[_token]":    {token},
		"login_form[_username]": {username},
		"login_form[_password]": {password},
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetBody(values.Encode()).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		Post("/login")
	if err != nil {
		span.SetStatus(codes.Error, "failed to post login request")
		return err
	}

	// bad credentials bounce straight back to the login form
	final := res.RawResponse.Request.URL
	if final.Path == "/login" || final.Path == "/login/" {
		span.SetStatus(codes.Error, InvalidCredentials.Error())
		return InvalidCredentials
	}
	return nil
}

// issues one logical portal operation: wraps subsystem/action/params
// into the dispatcher's command envelope and returns the raw response
// body, XML or JSON depending on the endpoint.
func (c *Client) PostCommand(ctx context.Context, subsystem, action string, params map[string]string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("command:%s:%s", subsystem, action))
	defer span.End()
	span.SetAttributes(
		attribute.KeyValue{
			Key:   "subsystem",
			Value: attribute.StringValue(subsystem),
		},
		attribute.KeyValue{
			Key:   "action",
			Value: attribute.StringValue(action),
		},
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module": "Agenda",
			"file":   "dispatcher",
		}).
		SetFormData(map[string]string{
			"command": buildCommandEnvelope(subsystem, action, params),
		}).
		Post("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	return res.Body(), nil
}

// form-post against one of the plain JSON endpoints that live outside
// the dispatcher (e.g. future tasks)
func (c *Client) PostJSON(ctx context.Context, path string, form map[string]string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("json:%s", path))
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	return res.Body(), nil
}

func buildCommandEnvelope(subsystem, action string, params map[string]string) string {
	doc := etree.NewDocument()
	command := doc.CreateElement("request").CreateElement("command")
	command.CreateElement("subsystem").SetText(subsystem)
	command.CreateElement("action").SetText(action)

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	paramList := command.CreateElement("params")
	for _, name := range names {
		param := paramList.CreateElement("param")
		param.CreateAttr("name", name)
		param.SetText(params[name])
	}

	rendered, err := doc.WriteToString()
	if err != nil {
		// WriteToString on an in-memory document cannot fail
		panic(err)
	}
	return rendered
}
