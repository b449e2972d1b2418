package main

const layoutHead = `<!doctype html>
<title>{{ title | escape }} | MiniTweet</title>
<div class="page">
  <h1>MiniTweet</h1>
  <div class="navigation">
  {% if logged_in %}
    <a href="/">my timeline</a> |
    <a href="/public">public timeline</a> |
    <a href="/top">top tweets</a> |
    <a href="/counts">tweet counts</a> |
    <a href="/logout">sign out [{{ current_user | escape }}]</a>
  {% else %}
    <a href="/public">public timeline</a> |
    <a href="/top">top tweets</a> |
    <a href="/counts">tweet counts</a> |
    <a href="/register">sign up</a> |
    <a href="/login">sign in</a>
  {% endif %}
  </div>
  {% if flashes %}
  <ul class="flashes">
    {% for message in flashes %}<li>{{ message | escape }}</li>{% endfor %}
  </ul>
  {% endif %}
  <div class="body">
`

const layoutFoot = `
  </div>
  <div class="footer">MiniTweet &mdash; an in-memory feed</div>
</div>
`

const timelineBody = `
  <h2>{{ title | escape }}</h2>
  {% if logged_in and can_post %}
  <div class="twitbox">
    <h3>What's on your mind {{ current_user | escape }}?</h3>
    <form action="/add_message" method="post">
      <p><input type="text" name="text" size="60"><input type="submit" value="Share"></p>
    </form>
  </div>
  {% endif %}
  <ul class="messages">
  {% if tweets %}
    {% for tweet in tweets %}
    <li>
      <strong><a href="/user/{{ tweet.author | escape }}">{{ tweet.author | escape }}</a></strong>
      {{ tweet.message | escape }}
      <small>&mdash; #{{ tweet.id }} {{ tweet.posted }}</small>
      <form class="like" action="/tweet/{{ tweet.id }}/like" method="post">
        <button type="submit">likes: {{ tweet.likes }}</button>
      </form>
    </li>
    {% endfor %}
  {% else %}
    <li><em>There's no message so far.</em></li>
  {% endif %}
  </ul>
`

const countsBody = `
  <h2>{{ title | escape }}</h2>
  <ul class="counts">
  {% for row in counts %}
    <li><a href="/user/{{ row.username | escape }}">{{ row.username | escape }}</a>: {{ row.count }}</li>
  {% endfor %}
  </ul>
`

const loginBody = `
  <h2>Sign In</h2>
  {% if error %}<div class="error"><strong>Error:</strong> {{ error | escape }}</div>{% endif %}
  <form action="/login" method="post">
    <dl>
      <dt>Username:</dt><dd><input type="text" name="username" size="30" value="{{ username | escape }}"></dd>
      <dt>Password:</dt><dd><input type="password" name="password" size="30"></dd>
    </dl>
    <div class="actions"><input type="submit" value="Sign In"></div>
  </form>
`

const registerBody = `
  <h2>Sign Up</h2>
  {% if error %}<div class="error"><strong>Error:</strong> {{ error | escape }}</div>{% endif %}
  <form action="/register" method="post">
    <dl>
      <dt>Username:</dt><dd><input type="text" name="username" size="30" value="{{ username | escape }}"></dd>
      <dt>Password:</dt><dd><input type="password" name="password" size="30"></dd>
      <dt>Password <small>(repeat)</small>:</dt><dd><input type="password" name="password2" size="30"></dd>
    </dl>
    <div class="actions"><input type="submit" value="Sign Up"></div>
  </form>
`

var pageSources = map[string]string{
	"timeline": timelineBody,
	"counts":   countsBody,
	"login":    loginBody,
	"register": registerBody,
}
